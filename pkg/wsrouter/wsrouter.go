package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

// WSRouter dispatches inbound websocket messages to the handler registered
// for their type. Handling is sequential per connection: the read loop does
// not pull the next message until the current handler returns.
type WSRouter struct {
	routes       map[string]HandlerFunc
	middlewares  []Middleware
	errorHandler func(ctx context.Context, conn *websocket.Conn, err error)
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// SetErrorHandler registers the callback invoked when a handler returns a
// non-nil error.
func (r *WSRouter) SetErrorHandler(handler func(ctx context.Context, conn *websocket.Conn, err error)) {
	r.errorHandler = handler
}

func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			conn.WriteJSON(map[string]string{"error": "unknown message type"})
			continue
		}

		for i := len(r.middlewares) - 1; i >= 0; i-- {
			handler = r.middlewares[i](handler)
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil && r.errorHandler != nil {
			r.errorHandler(msgCtx, conn, err)
		}
	}
}
