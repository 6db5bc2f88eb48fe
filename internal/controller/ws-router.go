package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/pkg/ctxlogger"
	"github.com/syncbeats/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.messageLoggingWSMw())

	// room lifecycle
	mux.Handle("create-room", c.handleCreateRoom)
	mux.Handle("join-room", c.handleJoinRoom)
	mux.Handle("leave-room", c.handleLeaveRoom)

	// playback sync
	mux.Handle("play", c.handlePlay)
	mux.Handle("pause", c.handlePause)
	mux.Handle("seek", c.handleSeek)
	mux.Handle("video-change", c.handleVideoChange)
	mux.Handle("request-sync", c.handleRequestSync)

	// queue
	mux.Handle("add-to-queue", c.handleAddToQueue)
	mux.Handle("play-next", c.handlePlayNext)
	mux.Handle("remove-from-queue", c.handleRemoveFromQueue)

	// chat
	mux.Handle("chat-message", c.handleChatMessage)

	mux.SetErrorHandler(func(ctx context.Context, conn *websocket.Conn, err error) {
		c.logger.WarnContext(ctx, "failed to handle websocket message", "error", err)
	})

	return mux
}

func (c controller) messageLoggingWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received")

			start := time.Now()
			err := next(ctx, conn, payload)
			c.logger.DebugContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return err
		}
	}
}
