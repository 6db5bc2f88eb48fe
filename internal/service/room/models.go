package room

import "github.com/syncbeats/server/internal/repository/room"

type Player struct {
	MediaID   string  `json:"mediaId"`
	IsPlaying bool    `json:"isPlaying"`
	Position  float64 `json:"position"`
	UpdatedAt int64   `json:"updatedAt"`
}

type QueueItem struct {
	MediaID string `json:"mediaId"`
	Title   string `json:"title,omitempty"`
}

type RoomState struct {
	Code        string      `json:"code"`
	Player      Player      `json:"playbackState"`
	Queue       []QueueItem `json:"queue"`
	MemberCount int         `json:"memberCount"`
	Members     []string    `json:"members"`
}

func playerFromRepo(p room.Player) Player {
	return Player{
		MediaID:   p.MediaID,
		IsPlaying: p.IsPlaying,
		Position:  p.Position,
		UpdatedAt: p.UpdatedAt,
	}
}

func queueFromRepo(items []room.QueueItem) []QueueItem {
	queue := make([]QueueItem, 0, len(items))
	for _, item := range items {
		queue = append(queue, QueueItem{
			MediaID: item.MediaID,
			Title:   item.Title,
		})
	}

	return queue
}
