package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/room"
)

type UpdatePlayerStateParams struct {
	IsPlaying bool
	Position  float64
	SenderID  string
	Code      string
}

type UpdatePlayerStateResponse struct {
	Position float64
	// Conns excludes the sender: the originating client already applied the
	// state change locally, echoing it back would re-apply a stale position.
	Conns []*websocket.Conn
}

// UpdatePlayerState handles play and pause.
func (s *service) UpdatePlayerState(ctx context.Context, params *UpdatePlayerStateParams) (UpdatePlayerStateResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return UpdatePlayerStateResponse{}, err
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return UpdatePlayerStateResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.roomRepo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		IsPlaying: params.IsPlaying,
		Position:  params.Position,
		UpdatedAt: nextUpdatedAt(player.UpdatedAt),
		RoomCode:  roomCode,
	}); err != nil {
		return UpdatePlayerStateResponse{}, fmt.Errorf("failed to update player state: %w", err)
	}

	conns, err := s.getConnsExcept(ctx, roomCode, params.SenderID)
	if err != nil {
		return UpdatePlayerStateResponse{}, err
	}

	return UpdatePlayerStateResponse{
		Position: params.Position,
		Conns:    conns,
	}, nil
}

type SeekParams struct {
	Position float64
	SenderID string
	Code     string
}

type SeekResponse struct {
	Position float64
	Conns    []*websocket.Conn
}

func (s *service) Seek(ctx context.Context, params *SeekParams) (SeekResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return SeekResponse{}, err
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return SeekResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.roomRepo.UpdatePlayerPosition(ctx, &room.UpdatePlayerPositionParams{
		Position:  params.Position,
		UpdatedAt: nextUpdatedAt(player.UpdatedAt),
		RoomCode:  roomCode,
	}); err != nil {
		return SeekResponse{}, fmt.Errorf("failed to update player position: %w", err)
	}

	conns, err := s.getConnsExcept(ctx, roomCode, params.SenderID)
	if err != nil {
		return SeekResponse{}, err
	}

	return SeekResponse{
		Position: params.Position,
		Conns:    conns,
	}, nil
}

type ChangeVideoParams struct {
	MediaID  string
	SenderID string
	Code     string
}

type ChangeVideoResponse struct {
	MediaID string
	// Conns includes the sender: every client, originator included, must
	// converge to the canonical media id.
	Conns []*websocket.Conn
}

func (s *service) ChangeVideo(ctx context.Context, params *ChangeVideoParams) (ChangeVideoResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	unlock := s.lockRoom(roomCode)
	defer unlock()

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return ChangeVideoResponse{}, err
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return ChangeVideoResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	if err := s.roomRepo.UpdatePlayerVideo(ctx, &room.UpdatePlayerVideoParams{
		MediaID:   params.MediaID,
		IsPlaying: false,
		Position:  0,
		UpdatedAt: nextUpdatedAt(player.UpdatedAt),
		RoomCode:  roomCode,
	}); err != nil {
		return ChangeVideoResponse{}, fmt.Errorf("failed to update player video: %w", err)
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return ChangeVideoResponse{}, err
	}

	return ChangeVideoResponse{
		MediaID: params.MediaID,
		Conns:   conns,
	}, nil
}
