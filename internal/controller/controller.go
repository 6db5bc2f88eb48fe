package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/service/room"
	"github.com/syncbeats/server/pkg/validator"
	"github.com/syncbeats/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(context.Context, *room.ConnectParams) error
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
	CreateRoom(context.Context) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) (room.LeaveRoomResponse, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) (room.UpdatePlayerStateResponse, error)
	Seek(context.Context, *room.SeekParams) (room.SeekResponse, error)
	ChangeVideo(context.Context, *room.ChangeVideoParams) (room.ChangeVideoResponse, error)
	AddToQueue(context.Context, *room.AddToQueueParams) (room.AddToQueueResponse, error)
	PlayNext(context.Context, *room.PlayNextParams) (room.PlayNextResponse, error)
	RemoveFromQueue(context.Context, *room.RemoveFromQueueParams) (room.RemoveFromQueueResponse, error)
	GetSyncState(context.Context, *room.GetSyncStateParams) (room.GetSyncStateResponse, error)
	ChatMessage(context.Context, *room.ChatMessageParams) (room.ChatMessageResponse, error)
	GetRoomState(context.Context, string) (room.RoomState, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.New(),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
