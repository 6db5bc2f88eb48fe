package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/room"
)

// canonicalizeCode maps client-typed codes onto the registry's uppercase
// form.
func canonicalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// checkMembership verifies that the sender belongs to the given room, using
// the connection repo's cached roomCode first so a stray event for another
// room is rejected without touching that room's state.
func (s *service) checkMembership(ctx context.Context, roomCode, memberID string) error {
	cached, err := s.connRepo.GetRoomCode(memberID)
	if err != nil || cached != roomCode {
		return ErrNotAMember
	}

	if _, err := s.roomRepo.GetMemberDisplayName(ctx, roomCode, memberID); err != nil {
		if errors.Is(err, room.ErrMemberNotFound) {
			return ErrNotAMember
		}

		return fmt.Errorf("failed to check membership: %w", err)
	}

	return nil
}

// getConnsByRoomCode collects the live connections of all room members.
// Members without a live connection are skipped: broadcast is best-effort.
func (s *service) getConnsByRoomCode(ctx context.Context, roomCode string) ([]*websocket.Conn, error) {
	memberIDs, err := s.roomRepo.GetMemberIDs(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	conns := make([]*websocket.Conn, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		conn, err := s.connRepo.GetConn(memberID)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

// getConnsExcept is getConnsByRoomCode minus the sender, for the
// echo-suppressed broadcasts.
func (s *service) getConnsExcept(ctx context.Context, roomCode, senderID string) ([]*websocket.Conn, error) {
	memberIDs, err := s.roomRepo.GetMemberIDs(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	conns := make([]*websocket.Conn, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if memberID == senderID {
			continue
		}

		conn, err := s.connRepo.GetConn(memberID)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}
