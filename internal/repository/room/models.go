package room

// Player is the authoritative playback state of a room. Position is the
// last-known position in seconds as reported by the mutating client; the
// server does not extrapolate it between updates.
type Player struct {
	MediaID   string  `redis:"media_id"`
	IsPlaying bool    `redis:"is_playing"`
	Position  float64 `redis:"position"`
	UpdatedAt int64   `redis:"updated_at"`
}

type QueueItem struct {
	MediaID string `json:"mediaId"`
	Title   string `json:"title,omitempty"`
}
