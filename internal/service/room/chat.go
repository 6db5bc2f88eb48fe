package room

import (
	"context"

	"github.com/gorilla/websocket"
)

type ChatMessageParams struct {
	Text     string
	SenderID string
	Code     string
}

type ChatMessageResponse struct {
	DisplayName string
	Text        string
	SentAt      int64
	Conns       []*websocket.Conn
}

// ChatMessage is a stateless fan-out: no room state is read or written
// beyond resolving the sender's display name.
func (s *service) ChatMessage(ctx context.Context, params *ChatMessageParams) (ChatMessageResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return ChatMessageResponse{}, err
	}

	displayName, err := s.roomRepo.GetMemberDisplayName(ctx, roomCode, params.SenderID)
	if err != nil {
		return ChatMessageResponse{}, ErrNotAMember
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return ChatMessageResponse{}, err
	}

	return ChatMessageResponse{
		DisplayName: displayName,
		Text:        params.Text,
		SentAt:      now(),
		Conns:       conns,
	}, nil
}
