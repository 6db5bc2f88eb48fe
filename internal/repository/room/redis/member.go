package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/syncbeats/server/internal/repository/room"
)

func (r repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	membersKey := r.getMembersKey(params.RoomCode)
	if err := r.rc.HSet(ctx, membersKey, params.MemberID, params.DisplayName).Err(); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	r.rc.Expire(ctx, membersKey, r.expireDuration)

	return nil
}

func (r repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	removed, err := r.rc.HDel(ctx, r.getMembersKey(params.RoomCode), params.MemberID).Result()
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if removed == 0 {
		return room.ErrMemberNotFound
	}

	return nil
}

func (r repo) GetMemberDisplayName(ctx context.Context, roomCode, memberID string) (string, error) {
	displayName, err := r.rc.HGet(ctx, r.getMembersKey(roomCode), memberID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", room.ErrMemberNotFound
		}

		return "", fmt.Errorf("failed to get member display name: %w", err)
	}

	return displayName, nil
}

func (r repo) GetMembers(ctx context.Context, roomCode string) (map[string]string, error) {
	members, err := r.rc.HGetAll(ctx, r.getMembersKey(roomCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	return members, nil
}

func (r repo) GetMemberIDs(ctx context.Context, roomCode string) ([]string, error) {
	memberIDs, err := r.rc.HKeys(ctx, r.getMembersKey(roomCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	return memberIDs, nil
}

func (r repo) GetMemberCount(ctx context.Context, roomCode string) (int, error) {
	count, err := r.rc.HLen(ctx, r.getMembersKey(roomCode)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get member count: %w", err)
	}

	return int(count), nil
}
