package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/syncbeats/server/internal/repository/room"
)

// removedSentinel marks a list slot for deletion. Index removal is done with
// the LSET + LREM idiom because redis lists have no remove-by-index command.
const removedSentinel = "__removed__"

func (r repo) AddQueueItem(ctx context.Context, params *room.AddQueueItemParams) error {
	item, err := json.Marshal(params.Item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}

	queueKey := r.getQueueKey(params.RoomCode)
	if err := r.rc.RPush(ctx, queueKey, item).Err(); err != nil {
		return fmt.Errorf("failed to add queue item: %w", err)
	}

	r.rc.Expire(ctx, queueKey, r.expireDuration)

	return nil
}

func (r repo) GetQueue(ctx context.Context, roomCode string) ([]room.QueueItem, error) {
	rawItems, err := r.rc.LRange(ctx, r.getQueueKey(roomCode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	queue := make([]room.QueueItem, 0, len(rawItems))
	for _, rawItem := range rawItems {
		var item room.QueueItem
		if err := json.Unmarshal([]byte(rawItem), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
		}

		queue = append(queue, item)
	}

	return queue, nil
}

func (r repo) GetQueueLength(ctx context.Context, roomCode string) (int, error) {
	length, err := r.rc.LLen(ctx, r.getQueueKey(roomCode)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}

	return int(length), nil
}

func (r repo) PopFirstQueueItem(ctx context.Context, roomCode string) (room.QueueItem, error) {
	rawItem, err := r.rc.LPop(ctx, r.getQueueKey(roomCode)).Result()
	if err != nil {
		if err == redis.Nil {
			return room.QueueItem{}, room.ErrQueueEmpty
		}

		return room.QueueItem{}, fmt.Errorf("failed to pop queue item: %w", err)
	}

	var item room.QueueItem
	if err := json.Unmarshal([]byte(rawItem), &item); err != nil {
		return room.QueueItem{}, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}

	return item, nil
}

func (r repo) RemoveQueueItem(ctx context.Context, params *room.RemoveQueueItemParams) error {
	queueKey := r.getQueueKey(params.RoomCode)

	length, err := r.rc.LLen(ctx, queueKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get queue length: %w", err)
	}

	if params.Index < 0 || int64(params.Index) >= length {
		return room.ErrQueueIndexOutOfRange
	}

	if err := r.rc.LSet(ctx, queueKey, int64(params.Index), removedSentinel).Err(); err != nil {
		return fmt.Errorf("failed to mark queue item: %w", err)
	}

	if err := r.rc.LRem(ctx, queueKey, 1, removedSentinel).Err(); err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}

	return nil
}
