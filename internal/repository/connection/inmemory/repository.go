package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/connection"
)

// repo tracks live connections and which room each member currently belongs
// to, so disconnect handling is a direct lookup instead of a registry scan.
type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
	roomList map[string]string
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
		roomList: make(map[string]string),
	}
}

func (r *repo) Add(conn *websocket.Conn, memberID string) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug(funcName, "memberID", memberID)
	if r.connList[conn] != "" || r.idList[memberID] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = memberID
	r.idList[memberID] = conn

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	funcName := "connection.inmemory.RemoveByConn"
	r.mu.Lock()
	defer r.mu.Unlock()

	memberID, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberID)
	delete(r.roomList, memberID)

	slog.Debug(funcName, "memberID", memberID)
	return memberID, nil
}

func (r *repo) RemoveByMemberID(memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[memberID]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberID)
	delete(r.roomList, memberID)

	return nil
}

func (r *repo) GetMemberID(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberID, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return memberID, nil
}

func (r *repo) GetConn(memberID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[memberID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) SetRoomCode(memberID, roomCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.idList[memberID]; !ok {
		return connection.ErrNotFound
	}

	r.roomList[memberID] = roomCode

	return nil
}

func (r *repo) GetRoomCode(memberID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomCode, ok := r.roomList[memberID]
	if !ok {
		return "", connection.ErrNotFound
	}

	return roomCode, nil
}

func (r *repo) ClearRoomCode(memberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roomList, memberID)
}
