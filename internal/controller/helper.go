package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/service/room"
)

func (c controller) generateTimeBasedID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, out *Output) error {
	if err := conn.WriteJSON(out); err != nil {
		return fmt.Errorf("failed to write to conn: %w", err)
	}

	return nil
}

// broadcast delivers out to every conn, best-effort: a failed write is
// logged and skipped so one stale connection cannot block the others, and
// the already-committed state mutation is never rolled back.
func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, out *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(out); err != nil {
			c.logger.DebugContext(ctx, "failed to deliver broadcast", "type", out.Type, "error", err)
		}
	}
}

func (c controller) writeRoomError(ctx context.Context, conn *websocket.Conn, reason string) {
	if err := c.writeToConn(ctx, conn, &Output{
		Type:    "room-error",
		Payload: RoomErrorOutput{Reason: reason},
	}); err != nil {
		c.logger.DebugContext(ctx, "failed to write room error", "error", err)
	}
}

// unmarshalInput decodes and validates a ws payload. A malformed payload is
// dropped, never escalated.
func (c controller) unmarshalInput(ctx context.Context, payload json.RawMessage, dst any) bool {
	if err := json.Unmarshal(payload, dst); err != nil {
		c.logger.DebugContext(ctx, "failed to unmarshal payload", "error", err)
		return false
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		c.logger.DebugContext(ctx, "invalid payload", "errors", validationErrors)
		return false
	}

	return true
}

// isSilentlyIgnored reports whether a service error is one of the
// invalid-event cases that are deliberate no-ops: stale, duplicate or
// out-of-order client events must never corrupt state or surface as
// failures.
func isSilentlyIgnored(err error) bool {
	return errors.Is(err, room.ErrNotAMember) ||
		errors.Is(err, room.ErrQueueEmpty) ||
		errors.Is(err, room.ErrQueueIndexOutOfRange) ||
		errors.Is(err, room.ErrQueueLimitReached)
}
