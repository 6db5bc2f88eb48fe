package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/room"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomFull             = errors.New("room is full")
	ErrAlreadyInRoom        = errors.New("already in a room")
	ErrNotAMember           = errors.New("not a member of the room")
	ErrQueueEmpty           = errors.New("queue is empty")
	ErrQueueLimitReached    = errors.New("queue limit reached")
	ErrQueueIndexOutOfRange = errors.New("queue index out of range")
)

// maxCreateRoomAttempts bounds the collision-retry loop for room codes. The
// code generator is random, not proven unique, so creation re-rolls until the
// registry accepts the code.
const maxCreateRoomAttempts = 10

type iRoomRepo interface {
	// room
	CreateRoom(context.Context, *room.CreateRoomParams) error
	RoomExists(context.Context, string) (bool, error)
	RemoveRoom(context.Context, string) error
	// player
	SetPlayer(context.Context, *room.SetPlayerParams) error
	GetPlayer(context.Context, string) (room.Player, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) error
	UpdatePlayerPosition(context.Context, *room.UpdatePlayerPositionParams) error
	UpdatePlayerVideo(context.Context, *room.UpdatePlayerVideoParams) error
	// member
	AddMember(context.Context, *room.AddMemberParams) error
	RemoveMember(context.Context, *room.RemoveMemberParams) error
	GetMemberDisplayName(ctx context.Context, roomCode, memberID string) (string, error)
	GetMembers(context.Context, string) (map[string]string, error)
	GetMemberIDs(context.Context, string) ([]string, error)
	GetMemberCount(context.Context, string) (int, error)
	// queue
	AddQueueItem(context.Context, *room.AddQueueItemParams) error
	GetQueue(context.Context, string) ([]room.QueueItem, error)
	GetQueueLength(context.Context, string) (int, error)
	PopFirstQueueItem(context.Context, string) (room.QueueItem, error)
	RemoveQueueItem(context.Context, *room.RemoveQueueItemParams) error
}

type iConnRepo interface {
	Add(*websocket.Conn, string) error
	RemoveByMemberID(string) error
	GetConn(string) (*websocket.Conn, error)
	SetRoomCode(memberID, roomCode string) error
	GetRoomCode(memberID string) (string, error)
	ClearRoomCode(memberID string)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	MembersLimit   int
	QueueLimit     int
	RoomCodeLength int
	DefaultMediaID string
}

type service struct {
	roomRepo  iRoomRepo
	connRepo  iConnRepo
	generator iGenerator
	cfg       Config
	// locks serializes all mutations of one room. Cross-room events never
	// contend on each other.
	locks sync.Map
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, generator iGenerator, cfg *Config) *service {
	return &service{
		roomRepo:  roomRepo,
		connRepo:  connRepo,
		generator: generator,
		cfg:       *cfg,
	}
}

// lockRoom serializes event processing for one room. The returned func
// releases the lock.
func (s *service) lockRoom(roomCode string) func() {
	v, _ := s.locks.LoadOrStore(roomCode, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// dropRoomLock forgets a deleted room's mutex. Late waiters still acquire the
// old mutex but fail the existence check before mutating anything.
func (s *service) dropRoomLock(roomCode string) {
	s.locks.Delete(roomCode)
}

func now() int64 {
	return time.Now().UnixMilli()
}

// nextUpdatedAt keeps the player's updatedAt non-decreasing even if the wall
// clock steps backwards between two mutations.
func nextUpdatedAt(prev int64) int64 {
	if ts := now(); ts > prev {
		return ts
	}

	return prev
}
