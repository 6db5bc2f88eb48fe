package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

// NewRepo returns a room repository backed by the given redis client. Every
// room key is written with expireDuration as a safety net against rooms
// leaked by crashed connections; the expiry is refreshed on each access.
func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getRoomKey(roomCode string) string {
	return "room:" + roomCode
}

func (r repo) getPlayerKey(roomCode string) string {
	return "room:" + roomCode + ":player"
}

func (r repo) getMembersKey(roomCode string) string {
	return "room:" + roomCode + ":members"
}

func (r repo) getQueueKey(roomCode string) string {
	return "room:" + roomCode + ":queue"
}
