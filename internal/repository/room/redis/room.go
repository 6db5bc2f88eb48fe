package redis

import (
	"context"
	"fmt"

	"github.com/syncbeats/server/internal/repository/room"
)

func (r repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	roomKey := r.getRoomKey(params.Code)
	created, err := r.rc.SetNX(ctx, roomKey, params.CreatedAt, r.expireDuration).Result()
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if !created {
		return room.ErrRoomAlreadyExists
	}

	return nil
}

func (r repo) RoomExists(ctx context.Context, roomCode string) (bool, error) {
	res, err := r.rc.Exists(ctx, r.getRoomKey(roomCode)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if room exists: %w", err)
	}

	return res > 0, nil
}

func (r repo) RemoveRoom(ctx context.Context, roomCode string) error {
	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, r.getRoomKey(roomCode))
	pipe.Del(ctx, r.getPlayerKey(roomCode))
	pipe.Del(ctx, r.getMembersKey(roomCode))
	pipe.Del(ctx, r.getQueueKey(roomCode))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove room: %w", err)
	}

	return nil
}
