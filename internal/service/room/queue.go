package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/room"
)

type AddToQueueParams struct {
	Item     QueueItem
	SenderID string
	Code     string
}

type AddToQueueResponse struct {
	Queue []QueueItem
	Conns []*websocket.Conn
}

func (s *service) AddToQueue(ctx context.Context, params *AddToQueueParams) (AddToQueueResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return AddToQueueResponse{}, err
	}

	queueLength, err := s.roomRepo.GetQueueLength(ctx, roomCode)
	if err != nil {
		return AddToQueueResponse{}, fmt.Errorf("failed to get queue length: %w", err)
	}
	if queueLength >= s.cfg.QueueLimit {
		return AddToQueueResponse{}, ErrQueueLimitReached
	}

	if err := s.roomRepo.AddQueueItem(ctx, &room.AddQueueItemParams{
		Item: room.QueueItem{
			MediaID: params.Item.MediaID,
			Title:   params.Item.Title,
		},
		RoomCode: roomCode,
	}); err != nil {
		return AddToQueueResponse{}, fmt.Errorf("failed to add queue item: %w", err)
	}

	queue, err := s.roomRepo.GetQueue(ctx, roomCode)
	if err != nil {
		return AddToQueueResponse{}, fmt.Errorf("failed to get queue: %w", err)
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return AddToQueueResponse{}, err
	}

	return AddToQueueResponse{
		Queue: queueFromRepo(queue),
		Conns: conns,
	}, nil
}

type PlayNextParams struct {
	SenderID string
	Code     string
}

type PlayNextResponse struct {
	MediaID string
	Queue   []QueueItem
	Conns   []*websocket.Conn
}

// PlayNext pops the queue head into the player. An empty queue leaves the
// playback state untouched.
func (s *service) PlayNext(ctx context.Context, params *PlayNextParams) (PlayNextResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return PlayNextResponse{}, err
	}

	item, err := s.roomRepo.PopFirstQueueItem(ctx, roomCode)
	if err != nil {
		if errors.Is(err, room.ErrQueueEmpty) {
			return PlayNextResponse{}, ErrQueueEmpty
		}

		return PlayNextResponse{}, fmt.Errorf("failed to pop queue item: %w", err)
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return PlayNextResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.roomRepo.UpdatePlayerVideo(ctx, &room.UpdatePlayerVideoParams{
		MediaID:   item.MediaID,
		IsPlaying: true,
		Position:  0,
		UpdatedAt: nextUpdatedAt(player.UpdatedAt),
		RoomCode:  roomCode,
	}); err != nil {
		return PlayNextResponse{}, fmt.Errorf("failed to update player video: %w", err)
	}

	queue, err := s.roomRepo.GetQueue(ctx, roomCode)
	if err != nil {
		return PlayNextResponse{}, fmt.Errorf("failed to get queue: %w", err)
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return PlayNextResponse{}, err
	}

	return PlayNextResponse{
		MediaID: item.MediaID,
		Queue:   queueFromRepo(queue),
		Conns:   conns,
	}, nil
}

type RemoveFromQueueParams struct {
	Index    int
	SenderID string
	Code     string
}

type RemoveFromQueueResponse struct {
	Queue []QueueItem
	Conns []*websocket.Conn
}

// RemoveFromQueue validates the index against the current queue length; a
// stale index is rejected, not clamped.
func (s *service) RemoveFromQueue(ctx context.Context, params *RemoveFromQueueParams) (RemoveFromQueueResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return RemoveFromQueueResponse{}, err
	}

	if err := s.roomRepo.RemoveQueueItem(ctx, &room.RemoveQueueItemParams{
		Index:    params.Index,
		RoomCode: roomCode,
	}); err != nil {
		if errors.Is(err, room.ErrQueueIndexOutOfRange) {
			return RemoveFromQueueResponse{}, ErrQueueIndexOutOfRange
		}

		return RemoveFromQueueResponse{}, fmt.Errorf("failed to remove queue item: %w", err)
	}

	queue, err := s.roomRepo.GetQueue(ctx, roomCode)
	if err != nil {
		return RemoveFromQueueResponse{}, fmt.Errorf("failed to get queue: %w", err)
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return RemoveFromQueueResponse{}, err
	}

	return RemoveFromQueueResponse{
		Queue: queueFromRepo(queue),
		Conns: conns,
	}, nil
}
