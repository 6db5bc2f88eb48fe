package room

type CreateRoomParams struct {
	Code      string
	CreatedAt int64
}

type SetPlayerParams struct {
	MediaID   string
	IsPlaying bool
	Position  float64
	UpdatedAt int64
	RoomCode  string
}

type UpdatePlayerStateParams struct {
	IsPlaying bool
	Position  float64
	UpdatedAt int64
	RoomCode  string
}

type UpdatePlayerPositionParams struct {
	Position  float64
	UpdatedAt int64
	RoomCode  string
}

type UpdatePlayerVideoParams struct {
	MediaID   string
	IsPlaying bool
	Position  float64
	UpdatedAt int64
	RoomCode  string
}

type AddMemberParams struct {
	MemberID    string
	DisplayName string
	RoomCode    string
}

type RemoveMemberParams struct {
	MemberID string
	RoomCode string
}

type AddQueueItemParams struct {
	Item     QueueItem
	RoomCode string
}

type RemoveQueueItemParams struct {
	Index    int
	RoomCode string
}
