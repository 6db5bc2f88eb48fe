package redis

import (
	"context"
	"fmt"

	"github.com/syncbeats/server/internal/repository/room"
)

func (r repo) SetPlayer(ctx context.Context, params *room.SetPlayerParams) error {
	player := room.Player{
		MediaID:   params.MediaID,
		IsPlaying: params.IsPlaying,
		Position:  params.Position,
		UpdatedAt: params.UpdatedAt,
	}

	playerKey := r.getPlayerKey(params.RoomCode)
	if err := r.rc.HSet(ctx, playerKey, player).Err(); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return nil
}

func (r repo) GetPlayer(ctx context.Context, roomCode string) (room.Player, error) {
	playerKey := r.getPlayerKey(roomCode)
	res, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return room.Player{}, fmt.Errorf("failed to get player: %w", err)
	}

	if res == 0 {
		return room.Player{}, room.ErrPlayerNotFound
	}

	var player room.Player
	if err := r.rc.HGetAll(ctx, playerKey).Scan(&player); err != nil {
		return room.Player{}, fmt.Errorf("failed to get player: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return player, nil
}

func (r repo) UpdatePlayerState(ctx context.Context, params *room.UpdatePlayerStateParams) error {
	playerKey := r.getPlayerKey(params.RoomCode)
	if err := r.rc.HSet(ctx, playerKey,
		"is_playing", params.IsPlaying,
		"position", params.Position,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		return fmt.Errorf("failed to update player state: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return nil
}

func (r repo) UpdatePlayerPosition(ctx context.Context, params *room.UpdatePlayerPositionParams) error {
	playerKey := r.getPlayerKey(params.RoomCode)
	if err := r.rc.HSet(ctx, playerKey,
		"position", params.Position,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		return fmt.Errorf("failed to update player position: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return nil
}

func (r repo) UpdatePlayerVideo(ctx context.Context, params *room.UpdatePlayerVideoParams) error {
	playerKey := r.getPlayerKey(params.RoomCode)
	if err := r.rc.HSet(ctx, playerKey,
		"media_id", params.MediaID,
		"is_playing", params.IsPlaying,
		"position", params.Position,
		"updated_at", params.UpdatedAt,
	).Err(); err != nil {
		return fmt.Errorf("failed to update player video: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return nil
}
