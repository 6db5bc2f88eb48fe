package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/service/room"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type RoomErrorOutput struct {
	Reason string `json:"reason"`
}

type RoomCreatedOutput struct {
	Code string `json:"code"`
}

type RoomJoinedOutput struct {
	Code          string           `json:"code"`
	PlaybackState room.Player      `json:"playbackState"`
	Queue         []room.QueueItem `json:"queue"`
}

type UserJoinedOutput struct {
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

type UserLeftOutput struct {
	DisplayName string `json:"displayName"`
	Count       int    `json:"count"`
}

type PositionOutput struct {
	Position float64 `json:"position"`
}

type VideoChangeOutput struct {
	MediaID string `json:"mediaId"`
}

type QueueUpdatedOutput struct {
	Queue []room.QueueItem `json:"queue"`
}

type SyncResponseOutput struct {
	PlaybackState room.Player `json:"playbackState"`
}

type ChatMessageOutput struct {
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	SentAt      int64  `json:"sentAt"`
}

func (c controller) handleCreateRoom(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	createRoomResp, err := c.roomService.CreateRoom(ctx)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return c.writeToConn(ctx, conn, &Output{
		Type:    "room-created",
		Payload: RoomCreatedOutput{Code: createRoomResp.Code},
	})
}

type JoinRoomInput struct {
	Code        string `json:"code" validate:"required,alphanum,max=12"`
	DisplayName string `json:"displayName" validate:"required,max=32"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input JoinRoomInput
	if !c.unmarshalInput(ctx, payload, &input) {
		c.writeRoomError(ctx, conn, "invalid join request")
		return nil
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		MemberID:    c.getMemberIDFromCtx(ctx),
		Code:        input.Code,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			c.writeRoomError(ctx, conn, "room not found")
		case errors.Is(err, room.ErrRoomFull):
			c.writeRoomError(ctx, conn, "room is full")
		case errors.Is(err, room.ErrAlreadyInRoom):
			c.writeRoomError(ctx, conn, "already in a room")
		default:
			return fmt.Errorf("failed to join room: %w", err)
		}

		return nil
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "room-joined",
		Payload: RoomJoinedOutput{
			Code:          joinRoomResp.Code,
			PlaybackState: joinRoomResp.Player,
			Queue:         joinRoomResp.Queue,
		},
	}); err != nil {
		return err
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type: "user-joined",
		Payload: UserJoinedOutput{
			DisplayName: joinRoomResp.DisplayName,
			Count:       joinRoomResp.MemberCount,
		},
	})

	return nil
}

func (c controller) handleLeaveRoom(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	leaveRoomResp, err := c.roomService.LeaveRoom(ctx, &room.LeaveRoomParams{
		MemberID: c.getMemberIDFromCtx(ctx),
	})
	if err != nil {
		if errors.Is(err, room.ErrNotAMember) {
			c.logger.DebugContext(ctx, "leave-room ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to leave room: %w", err)
	}

	c.broadcast(ctx, leaveRoomResp.Conns, &Output{
		Type: "user-left",
		Payload: UserLeftOutput{
			DisplayName: leaveRoomResp.DisplayName,
			Count:       leaveRoomResp.MemberCount,
		},
	})

	return nil
}

type PlaybackInput struct {
	RoomCode string  `json:"roomCode" validate:"required"`
	Position float64 `json:"position" validate:"gte=0"`
}

func (c controller) handlePlay(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	return c.handlePlayPause(ctx, payload, true, "play")
}

func (c controller) handlePause(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	return c.handlePlayPause(ctx, payload, false, "pause")
}

func (c controller) handlePlayPause(ctx context.Context, payload json.RawMessage, isPlaying bool, eventType string) error {
	var input PlaybackInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	updateResp, err := c.roomService.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		IsPlaying: isPlaying,
		Position:  input.Position,
		SenderID:  c.getMemberIDFromCtx(ctx),
		Code:      input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to update player state: %w", err)
	}

	c.broadcast(ctx, updateResp.Conns, &Output{
		Type:    eventType,
		Payload: PositionOutput{Position: updateResp.Position},
	})

	return nil
}

func (c controller) handleSeek(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input PlaybackInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	seekResp, err := c.roomService.Seek(ctx, &room.SeekParams{
		Position: input.Position,
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcast(ctx, seekResp.Conns, &Output{
		Type:    "seek",
		Payload: PositionOutput{Position: seekResp.Position},
	})

	return nil
}

type VideoChangeInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	MediaID  string `json:"mediaId" validate:"required"`
}

func (c controller) handleVideoChange(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input VideoChangeInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	changeVideoResp, err := c.roomService.ChangeVideo(ctx, &room.ChangeVideoParams{
		MediaID:  input.MediaID,
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to change video: %w", err)
	}

	c.broadcast(ctx, changeVideoResp.Conns, &Output{
		Type:    "video-change",
		Payload: VideoChangeOutput{MediaID: changeVideoResp.MediaID},
	})

	return nil
}

type AddToQueueInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	Item     struct {
		MediaID string `json:"mediaId" validate:"required"`
		Title   string `json:"title" validate:"max=128"`
	} `json:"item"`
}

func (c controller) handleAddToQueue(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input AddToQueueInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	addToQueueResp, err := c.roomService.AddToQueue(ctx, &room.AddToQueueParams{
		Item: room.QueueItem{
			MediaID: input.Item.MediaID,
			Title:   input.Item.Title,
		},
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to add to queue: %w", err)
	}

	c.broadcast(ctx, addToQueueResp.Conns, &Output{
		Type:    "queue-updated",
		Payload: QueueUpdatedOutput{Queue: addToQueueResp.Queue},
	})

	return nil
}

type PlayNextInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
}

func (c controller) handlePlayNext(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input PlayNextInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	playNextResp, err := c.roomService.PlayNext(ctx, &room.PlayNextParams{
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to play next: %w", err)
	}

	c.broadcast(ctx, playNextResp.Conns, &Output{
		Type:    "video-change",
		Payload: VideoChangeOutput{MediaID: playNextResp.MediaID},
	})
	c.broadcast(ctx, playNextResp.Conns, &Output{
		Type:    "queue-updated",
		Payload: QueueUpdatedOutput{Queue: playNextResp.Queue},
	})

	return nil
}

type RemoveFromQueueInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	Index    int    `json:"index"`
}

func (c controller) handleRemoveFromQueue(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input RemoveFromQueueInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	removeResp, err := c.roomService.RemoveFromQueue(ctx, &room.RemoveFromQueueParams{
		Index:    input.Index,
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to remove from queue: %w", err)
	}

	c.broadcast(ctx, removeResp.Conns, &Output{
		Type:    "queue-updated",
		Payload: QueueUpdatedOutput{Queue: removeResp.Queue},
	})

	return nil
}

type RequestSyncInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
}

func (c controller) handleRequestSync(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	var input RequestSyncInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	syncResp, err := c.roomService.GetSyncState(ctx, &room.GetSyncStateParams{
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to get sync state: %w", err)
	}

	return c.writeToConn(ctx, conn, &Output{
		Type:    "sync-response",
		Payload: SyncResponseOutput{PlaybackState: syncResp.Player},
	})
}

type ChatMessageInput struct {
	RoomCode string `json:"roomCode" validate:"required"`
	Text     string `json:"text" validate:"required,max=500"`
}

func (c controller) handleChatMessage(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	var input ChatMessageInput
	if !c.unmarshalInput(ctx, payload, &input) {
		return nil
	}

	chatResp, err := c.roomService.ChatMessage(ctx, &room.ChatMessageParams{
		Text:     input.Text,
		SenderID: c.getMemberIDFromCtx(ctx),
		Code:     input.RoomCode,
	})
	if err != nil {
		if isSilentlyIgnored(err) {
			c.logger.DebugContext(ctx, "event ignored", "error", err)
			return nil
		}

		return fmt.Errorf("failed to send chat message: %w", err)
	}

	c.broadcast(ctx, chatResp.Conns, &Output{
		Type: "chat-message",
		Payload: ChatMessageOutput{
			DisplayName: chatResp.DisplayName,
			Text:        chatResp.Text,
			SentAt:      chatResp.SentAt,
		},
	})

	return nil
}
