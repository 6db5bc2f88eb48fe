package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/syncbeats/server/internal/service/room"
	"github.com/syncbeats/server/pkg/ctxlogger"
)

// serveWS upgrades the request and serves the connection's event stream
// until it terminates. Every connection gets a member identity up front;
// room membership is established later by a join-room event.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	memberID := uuid.NewString()

	if err := c.roomService.Connect(r.Context(), &room.ConnectParams{
		Conn:     conn,
		MemberID: memberID,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	ctx := context.WithValue(r.Context(), memberIDCtxKey, memberID)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("member_id", memberID))

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "websocket connection closed", "error", err)
	}

	// The request context dies with the hijacked connection; the leave
	// mutation still has to commit before the user-left broadcast is
	// computed.
	disconnectCtx := context.WithoutCancel(ctx)
	disconnectResp, err := c.roomService.Disconnect(disconnectCtx, &room.DisconnectParams{
		MemberID: memberID,
	})
	if err != nil {
		c.logger.WarnContext(disconnectCtx, "failed to disconnect member", "error", err)
		return
	}

	if disconnectResp.WasInRoom && !disconnectResp.IsRoomDeleted {
		c.broadcast(disconnectCtx, disconnectResp.Conns, &Output{
			Type: "user-left",
			Payload: UserLeftOutput{
				DisplayName: disconnectResp.DisplayName,
				Count:       disconnectResp.MemberCount,
			},
		})
	}
}
