package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/syncbeats/server/internal/repository/room"
)

type ConnectParams struct {
	Conn     *websocket.Conn
	MemberID string
}

// Connect registers a freshly upgraded connection. The member is not in any
// room until a successful JoinRoom.
func (s *service) Connect(ctx context.Context, params *ConnectParams) error {
	if err := s.connRepo.Add(params.Conn, params.MemberID); err != nil {
		return fmt.Errorf("failed to register connection: %w", err)
	}

	return nil
}

type CreateRoomResponse struct {
	Code   string
	Player Player
}

// CreateRoom allocates a unique room code and installs the default playback
// state. The creator is not a member yet: creation and the creator's own
// join are two separate client round-trips.
func (s *service) CreateRoom(ctx context.Context) (CreateRoomResponse, error) {
	for attempt := 0; attempt < maxCreateRoomAttempts; attempt++ {
		code := s.generator.GenerateRandomString(s.cfg.RoomCodeLength)

		err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
			Code:      code,
			CreatedAt: now(),
		})
		if errors.Is(err, room.ErrRoomAlreadyExists) {
			continue
		}
		if err != nil {
			return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
		}

		player := room.SetPlayerParams{
			MediaID:   s.cfg.DefaultMediaID,
			IsPlaying: false,
			Position:  0,
			UpdatedAt: now(),
			RoomCode:  code,
		}
		if err := s.roomRepo.SetPlayer(ctx, &player); err != nil {
			return CreateRoomResponse{}, fmt.Errorf("failed to set player: %w", err)
		}

		return CreateRoomResponse{
			Code: code,
			Player: Player{
				MediaID:   player.MediaID,
				IsPlaying: player.IsPlaying,
				Position:  player.Position,
				UpdatedAt: player.UpdatedAt,
			},
		}, nil
	}

	return CreateRoomResponse{}, fmt.Errorf("failed to generate a unique room code after %d attempts", maxCreateRoomAttempts)
}

type JoinRoomParams struct {
	MemberID    string
	Code        string
	DisplayName string
}

type JoinRoomResponse struct {
	Code        string
	Player      Player
	Queue       []QueueItem
	DisplayName string
	MemberCount int
	// Conns holds every member connection including the joiner: the
	// user-joined notification is an inclusive broadcast.
	Conns []*websocket.Conn
}

func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	if _, err := s.connRepo.GetRoomCode(params.MemberID); err == nil {
		return JoinRoomResponse{}, ErrAlreadyInRoom
	}

	unlock := s.lockRoom(roomCode)
	defer unlock()

	exists, err := s.roomRepo.RoomExists(ctx, roomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if !exists {
		return JoinRoomResponse{}, ErrRoomNotFound
	}

	memberCount, err := s.roomRepo.GetMemberCount(ctx, roomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member count: %w", err)
	}
	if memberCount >= s.cfg.MembersLimit {
		return JoinRoomResponse{}, ErrRoomFull
	}

	if err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		MemberID:    params.MemberID,
		DisplayName: params.DisplayName,
		RoomCode:    roomCode,
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	if err := s.connRepo.SetRoomCode(params.MemberID, roomCode); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to cache room code: %w", err)
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	queue, err := s.roomRepo.GetQueue(ctx, roomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get queue: %w", err)
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{
		Code:        roomCode,
		Player:      playerFromRepo(player),
		Queue:       queueFromRepo(queue),
		DisplayName: params.DisplayName,
		MemberCount: memberCount + 1,
		Conns:       conns,
	}, nil
}

type LeaveRoomParams struct {
	MemberID string
}

type LeaveRoomResponse struct {
	RoomCode      string
	DisplayName   string
	MemberCount   int
	IsRoomDeleted bool
	// Conns holds the remaining members' connections.
	Conns []*websocket.Conn
}

// LeaveRoom handles the explicit room-leave event. The connection stays
// registered and may join another room afterwards.
func (s *service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) (LeaveRoomResponse, error) {
	return s.leave(ctx, params.MemberID)
}

type DisconnectParams struct {
	MemberID string
}

type DisconnectResponse struct {
	WasInRoom bool
	LeaveRoomResponse
}

// Disconnect tears down a terminated connection. Membership removal uses the
// cached connection → roomCode lookup, so no registry scan is needed.
func (s *service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	resp := DisconnectResponse{}

	leaveResp, err := s.leave(ctx, params.MemberID)
	switch {
	case err == nil:
		resp.WasInRoom = true
		resp.LeaveRoomResponse = leaveResp
	case errors.Is(err, ErrNotAMember):
		// connection never joined a room
	default:
		return DisconnectResponse{}, err
	}

	s.connRepo.RemoveByMemberID(params.MemberID)

	return resp, nil
}

// leave removes the member from its current room and deletes the room iff
// the membership transitioned from >=1 to 0. A freshly created room that
// nobody has joined yet is never collected here, because there is no member
// to remove from it.
func (s *service) leave(ctx context.Context, memberID string) (LeaveRoomResponse, error) {
	roomCode, err := s.connRepo.GetRoomCode(memberID)
	if err != nil {
		return LeaveRoomResponse{}, ErrNotAMember
	}

	unlock := s.lockRoom(roomCode)
	defer unlock()

	displayName, err := s.roomRepo.GetMemberDisplayName(ctx, roomCode, memberID)
	if err != nil {
		if errors.Is(err, room.ErrMemberNotFound) {
			s.connRepo.ClearRoomCode(memberID)
			return LeaveRoomResponse{}, ErrNotAMember
		}

		return LeaveRoomResponse{}, fmt.Errorf("failed to get member display name: %w", err)
	}

	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		MemberID: memberID,
		RoomCode: roomCode,
	}); err != nil {
		return LeaveRoomResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	s.connRepo.ClearRoomCode(memberID)

	memberCount, err := s.roomRepo.GetMemberCount(ctx, roomCode)
	if err != nil {
		return LeaveRoomResponse{}, fmt.Errorf("failed to get member count: %w", err)
	}

	resp := LeaveRoomResponse{
		RoomCode:    roomCode,
		DisplayName: displayName,
		MemberCount: memberCount,
	}

	if memberCount == 0 {
		if err := s.roomRepo.RemoveRoom(ctx, roomCode); err != nil {
			return LeaveRoomResponse{}, fmt.Errorf("failed to remove room: %w", err)
		}
		s.dropRoomLock(roomCode)
		resp.IsRoomDeleted = true

		return resp, nil
	}

	conns, err := s.getConnsByRoomCode(ctx, roomCode)
	if err != nil {
		return LeaveRoomResponse{}, err
	}
	resp.Conns = conns

	return resp, nil
}

type GetSyncStateParams struct {
	SenderID string
	Code     string
}

type GetSyncStateResponse struct {
	Player Player
}

// GetSyncState serves the request-sync event: a pure read delivered to the
// sender only.
func (s *service) GetSyncState(ctx context.Context, params *GetSyncStateParams) (GetSyncStateResponse, error) {
	roomCode := canonicalizeCode(params.Code)

	if err := s.checkMembership(ctx, roomCode, params.SenderID); err != nil {
		return GetSyncStateResponse{}, err
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return GetSyncStateResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	return GetSyncStateResponse{Player: playerFromRepo(player)}, nil
}

// GetRoomState is the read-only snapshot behind the REST surface.
func (s *service) GetRoomState(ctx context.Context, code string) (RoomState, error) {
	roomCode := canonicalizeCode(code)

	exists, err := s.roomRepo.RoomExists(ctx, roomCode)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if !exists {
		return RoomState{}, ErrRoomNotFound
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomCode)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get player: %w", err)
	}

	queue, err := s.roomRepo.GetQueue(ctx, roomCode)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get queue: %w", err)
	}

	members, err := s.roomRepo.GetMembers(ctx, roomCode)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get members: %w", err)
	}

	displayNames := make([]string, 0, len(members))
	for _, displayName := range members {
		displayNames = append(displayNames, displayName)
	}

	return RoomState{
		Code:        roomCode,
		Player:      playerFromRepo(player),
		Queue:       queueFromRepo(queue),
		MemberCount: len(members),
		Members:     displayNames,
	}, nil
}
