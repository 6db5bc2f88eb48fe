package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syncbeats/server/internal/repository/connection/inmemory"
	roomredis "github.com/syncbeats/server/internal/repository/room/redis"
	"github.com/syncbeats/server/pkg/randstr"
)

func newTestService(t *testing.T, cfg *Config) *service {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	if cfg == nil {
		cfg = &Config{
			MembersLimit:   9,
			QueueLimit:     25,
			RoomCodeLength: 6,
			DefaultMediaID: "dQw4w9WgXcQ",
		}
	}

	return NewService(
		roomredis.NewRepo(rc, time.Hour),
		inmemory.NewRepo(),
		randstr.New([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")),
		cfg,
	)
}

type testMember struct {
	id   string
	conn *websocket.Conn
}

func connectMember(t *testing.T, s *service, id string) testMember {
	t.Helper()

	conn := &websocket.Conn{}
	require.NoError(t, s.Connect(context.Background(), &ConnectParams{Conn: conn, MemberID: id}))

	return testMember{id: id, conn: conn}
}

func joinMember(t *testing.T, s *service, code, id, displayName string) testMember {
	t.Helper()

	m := connectMember(t, s, id)
	_, err := s.JoinRoom(context.Background(), &JoinRoomParams{
		MemberID:    id,
		Code:        code,
		DisplayName: displayName,
	})
	require.NoError(t, err)

	return m
}

func containsConn(conns []*websocket.Conn, conn *websocket.Conn) bool {
	for _, c := range conns {
		if c == conn {
			return true
		}
	}

	return false
}

func TestCreateRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	assert.Len(t, createResp.Code, 6)
	assert.Equal(t, "dQw4w9WgXcQ", createResp.Player.MediaID)
	assert.False(t, createResp.Player.IsPlaying)
	assert.Zero(t, createResp.Player.Position)
	assert.NotZero(t, createResp.Player.UpdatedAt)

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, createResp.Code, state.Code)
	assert.Equal(t, 0, state.MemberCount)
	assert.Empty(t, state.Queue)
}

type stubGenerator struct {
	codes []string
	calls int
}

func (g *stubGenerator) GenerateRandomString(length int) string {
	code := g.codes[g.calls]
	g.calls++
	return code
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	gen := &stubGenerator{codes: []string{"AAAAAA", "AAAAAA", "BBBBBB"}}
	s.generator = gen

	first, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.Code)

	second, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second.Code, "colliding code must be re-rolled")
	assert.Equal(t, 3, gen.calls)
}

func TestJoinRoomUnknownCode(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	m := connectMember(t, s, "m1")
	_, err := s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m.id,
		Code:        "ZZZZZZ",
		DisplayName: "alice",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	// no membership mutated anywhere
	_, err = s.connRepo.GetRoomCode(m.id)
	assert.Error(t, err)
}

func TestJoinRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	m1 := connectMember(t, s, "m1")
	joinResp, err := s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m1.id,
		Code:        createResp.Code,
		DisplayName: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, createResp.Code, joinResp.Code)
	assert.Equal(t, 1, joinResp.MemberCount)
	assert.Equal(t, "alice", joinResp.DisplayName)
	assert.Equal(t, createResp.Player.MediaID, joinResp.Player.MediaID)
	assert.Empty(t, joinResp.Queue)
	assert.Len(t, joinResp.Conns, 1)
	assert.True(t, containsConn(joinResp.Conns, m1.conn), "user-joined broadcast includes the joiner")

	m2 := connectMember(t, s, "m2")
	joinResp2, err := s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m2.id,
		Code:        joinResp.Code,
		DisplayName: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, joinResp2.MemberCount)
	assert.Len(t, joinResp2.Conns, 2)
}

func TestJoinRoomCanonicalizesCode(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	gen := &stubGenerator{codes: []string{"ABC123"}}
	s.generator = gen

	_, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	m := connectMember(t, s, "m1")
	joinResp, err := s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m.id,
		Code:        " abc123 ",
		DisplayName: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", joinResp.Code)
}

func TestJoinRoomAlreadyInRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	first, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	second, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	m := joinMember(t, s, first.Code, "m1", "alice")
	_, err = s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m.id,
		Code:        second.Code,
		DisplayName: "alice",
	})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)
}

func TestJoinRoomFull(t *testing.T) {
	s := newTestService(t, &Config{
		MembersLimit:   2,
		QueueLimit:     25,
		RoomCodeLength: 6,
		DefaultMediaID: "dQw4w9WgXcQ",
	})
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	joinMember(t, s, createResp.Code, "m1", "alice")
	joinMember(t, s, createResp.Code, "m2", "bob")

	m3 := connectMember(t, s, "m3")
	_, err = s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    m3.id,
		Code:        createResp.Code,
		DisplayName: "carol",
	})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestPlayEchoSuppression(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")
	m3 := joinMember(t, s, createResp.Code, "m3", "carol")

	playResp, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		IsPlaying: true,
		Position:  42,
		SenderID:  m1.id,
		Code:      createResp.Code,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(42), playResp.Position)
	assert.Len(t, playResp.Conns, 2)
	assert.False(t, containsConn(playResp.Conns, m1.conn), "sender must not receive its own play")
	assert.True(t, containsConn(playResp.Conns, m2.conn))
	assert.True(t, containsConn(playResp.Conns, m3.conn))

	syncResp, err := s.GetSyncState(ctx, &GetSyncStateParams{SenderID: m2.id, Code: createResp.Code})
	require.NoError(t, err)
	assert.True(t, syncResp.Player.IsPlaying)
	assert.Equal(t, float64(42), syncResp.Player.Position)
}

func TestPauseUpdatesState(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	_, err = s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		IsPlaying: true,
		Position:  10,
		SenderID:  m1.id,
		Code:      createResp.Code,
	})
	require.NoError(t, err)

	pauseResp, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		IsPlaying: false,
		Position:  12.5,
		SenderID:  m1.id,
		Code:      createResp.Code,
	})
	require.NoError(t, err)
	assert.Empty(t, pauseResp.Conns, "no other members to notify")

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.False(t, state.Player.IsPlaying)
	assert.Equal(t, 12.5, state.Player.Position)
}

func TestSeekLastWriterWins(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")

	_, err = s.Seek(ctx, &SeekParams{Position: 10, SenderID: m1.id, Code: createResp.Code})
	require.NoError(t, err)
	_, err = s.Seek(ctx, &SeekParams{Position: 20, SenderID: m2.id, Code: createResp.Code})
	require.NoError(t, err)

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, float64(20), state.Player.Position)
}

func TestUpdatedAtMonotonic(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	prev := createResp.Player.UpdatedAt

	mutations := []func() error{
		func() error {
			_, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{IsPlaying: true, Position: 1, SenderID: m1.id, Code: createResp.Code})
			return err
		},
		func() error {
			_, err := s.Seek(ctx, &SeekParams{Position: 30, SenderID: m1.id, Code: createResp.Code})
			return err
		},
		func() error {
			_, err := s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{IsPlaying: false, Position: 31, SenderID: m1.id, Code: createResp.Code})
			return err
		},
		func() error {
			_, err := s.ChangeVideo(ctx, &ChangeVideoParams{MediaID: "abc", SenderID: m1.id, Code: createResp.Code})
			return err
		},
	}

	for i, mutate := range mutations {
		require.NoError(t, mutate())

		state, err := s.GetRoomState(ctx, createResp.Code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, state.Player.UpdatedAt, prev, "mutation %d decreased updatedAt", i)
		prev = state.Player.UpdatedAt
	}
}

func TestVideoChangeInclusiveBroadcast(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")

	changeResp, err := s.ChangeVideo(ctx, &ChangeVideoParams{
		MediaID:  "X",
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)
	assert.Equal(t, "X", changeResp.MediaID)
	assert.Len(t, changeResp.Conns, 2)
	assert.True(t, containsConn(changeResp.Conns, m1.conn), "sender must converge too")
	assert.True(t, containsConn(changeResp.Conns, m2.conn))

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, "X", state.Player.MediaID)
	assert.False(t, state.Player.IsPlaying)
	assert.Zero(t, state.Player.Position)
}

func TestQueueFIFO(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	addResp, err := s.AddToQueue(ctx, &AddToQueueParams{
		Item:     QueueItem{MediaID: "v1", Title: "first"},
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)
	assert.Len(t, addResp.Queue, 1)

	addResp, err = s.AddToQueue(ctx, &AddToQueueParams{
		Item:     QueueItem{MediaID: "v2", Title: "second"},
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)
	require.Len(t, addResp.Queue, 2)
	assert.Equal(t, "v1", addResp.Queue[0].MediaID)
	assert.Equal(t, "v2", addResp.Queue[1].MediaID)

	playNextResp, err := s.PlayNext(ctx, &PlayNextParams{SenderID: m1.id, Code: createResp.Code})
	require.NoError(t, err)
	assert.Equal(t, "v1", playNextResp.MediaID)
	require.Len(t, playNextResp.Queue, 1)
	assert.Equal(t, "v2", playNextResp.Queue[0].MediaID)

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, "v1", state.Player.MediaID)
	assert.True(t, state.Player.IsPlaying)
	assert.Zero(t, state.Player.Position)
}

func TestPlayNextEmptyQueue(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	before, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)

	_, err = s.PlayNext(ctx, &PlayNextParams{SenderID: m1.id, Code: createResp.Code})
	assert.ErrorIs(t, err, ErrQueueEmpty)

	after, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, before.Player, after.Player, "empty queue must not mutate playback state")
}

func TestRemoveFromQueueOutOfRange(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	_, err = s.AddToQueue(ctx, &AddToQueueParams{
		Item:     QueueItem{MediaID: "v1"},
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)

	for _, index := range []int{5, -1, 1} {
		_, err = s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
			Index:    index,
			SenderID: m1.id,
			Code:     createResp.Code,
		})
		assert.ErrorIs(t, err, ErrQueueIndexOutOfRange, "index %d", index)
	}

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	require.Len(t, state.Queue, 1)
	assert.Equal(t, "v1", state.Queue[0].MediaID)
}

func TestRemoveFromQueue(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	for _, mediaID := range []string{"v1", "v2", "v3"} {
		_, err = s.AddToQueue(ctx, &AddToQueueParams{
			Item:     QueueItem{MediaID: mediaID},
			SenderID: m1.id,
			Code:     createResp.Code,
		})
		require.NoError(t, err)
	}

	removeResp, err := s.RemoveFromQueue(ctx, &RemoveFromQueueParams{
		Index:    1,
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)
	require.Len(t, removeResp.Queue, 2)
	assert.Equal(t, "v1", removeResp.Queue[0].MediaID)
	assert.Equal(t, "v3", removeResp.Queue[1].MediaID)
}

func TestAddToQueueLimit(t *testing.T) {
	s := newTestService(t, &Config{
		MembersLimit:   9,
		QueueLimit:     2,
		RoomCodeLength: 6,
		DefaultMediaID: "dQw4w9WgXcQ",
	})
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	for _, mediaID := range []string{"v1", "v2"} {
		_, err = s.AddToQueue(ctx, &AddToQueueParams{
			Item:     QueueItem{MediaID: mediaID},
			SenderID: m1.id,
			Code:     createResp.Code,
		})
		require.NoError(t, err)
	}

	_, err = s.AddToQueue(ctx, &AddToQueueParams{
		Item:     QueueItem{MediaID: "v3"},
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	assert.ErrorIs(t, err, ErrQueueLimitReached)
}

func TestNotAMember(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	joinMember(t, s, createResp.Code, "m1", "alice")

	// connected but never joined
	outsider := connectMember(t, s, "m2")
	_, err = s.UpdatePlayerState(ctx, &UpdatePlayerStateParams{
		IsPlaying: true,
		Position:  5,
		SenderID:  outsider.id,
		Code:      createResp.Code,
	})
	assert.ErrorIs(t, err, ErrNotAMember)

	// member of another room
	otherRoom, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	stranger := joinMember(t, s, otherRoom.Code, "m3", "carol")
	_, err = s.Seek(ctx, &SeekParams{Position: 7, SenderID: stranger.id, Code: createResp.Code})
	assert.ErrorIs(t, err, ErrNotAMember)

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.False(t, state.Player.IsPlaying)
	assert.Zero(t, state.Player.Position)
}

func TestLeaveRoomKeepsNonEmptyRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")

	leaveResp, err := s.LeaveRoom(ctx, &LeaveRoomParams{MemberID: m1.id})
	require.NoError(t, err)
	assert.Equal(t, "alice", leaveResp.DisplayName)
	assert.Equal(t, 1, leaveResp.MemberCount)
	assert.False(t, leaveResp.IsRoomDeleted)
	require.Len(t, leaveResp.Conns, 1)
	assert.True(t, containsConn(leaveResp.Conns, m2.conn))

	// the leaver may join another room afterwards
	otherRoom, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	_, err = s.JoinRoom(ctx, &JoinRoomParams{MemberID: m1.id, Code: otherRoom.Code, DisplayName: "alice"})
	assert.NoError(t, err)
}

func TestDisconnectDeletesEmptyRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")

	disconnectResp, err := s.Disconnect(ctx, &DisconnectParams{MemberID: m1.id})
	require.NoError(t, err)
	assert.True(t, disconnectResp.WasInRoom)
	assert.True(t, disconnectResp.IsRoomDeleted)
	assert.Equal(t, 0, disconnectResp.MemberCount)

	_, err = s.GetRoomState(ctx, createResp.Code)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	latecomer := connectMember(t, s, "m2")
	_, err = s.JoinRoom(ctx, &JoinRoomParams{
		MemberID:    latecomer.id,
		Code:        createResp.Code,
		DisplayName: "bob",
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDisconnectWithoutRoom(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	m := connectMember(t, s, "m1")
	disconnectResp, err := s.Disconnect(ctx, &DisconnectParams{MemberID: m.id})
	require.NoError(t, err)
	assert.False(t, disconnectResp.WasInRoom)
}

func TestFreshEmptyRoomIsNotCollected(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	// created but not yet joined: zero members is a legal transient state
	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)

	bystander := connectMember(t, s, "m1")
	_, err = s.Disconnect(ctx, &DisconnectParams{MemberID: bystander.id})
	require.NoError(t, err)

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)
	assert.Equal(t, 0, state.MemberCount, "room survives until a member joins and leaves")
}

func TestChatMessageFanOut(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")

	chatResp, err := s.ChatMessage(ctx, &ChatMessageParams{
		Text:     "hello",
		SenderID: m1.id,
		Code:     createResp.Code,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", chatResp.DisplayName)
	assert.Equal(t, "hello", chatResp.Text)
	assert.NotZero(t, chatResp.SentAt)
	assert.Len(t, chatResp.Conns, 2)
	assert.True(t, containsConn(chatResp.Conns, m1.conn))
	assert.True(t, containsConn(chatResp.Conns, m2.conn))
}

func TestRequestSyncRequiresMembership(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	joinMember(t, s, createResp.Code, "m1", "alice")

	outsider := connectMember(t, s, "m2")
	_, err = s.GetSyncState(ctx, &GetSyncStateParams{SenderID: outsider.id, Code: createResp.Code})
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestConcurrentSeeksAreSerialized(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	createResp, err := s.CreateRoom(ctx)
	require.NoError(t, err)
	m1 := joinMember(t, s, createResp.Code, "m1", "alice")
	m2 := joinMember(t, s, createResp.Code, "m2", "bob")

	positions := []float64{10, 20, 30, 40, 50}
	var wg sync.WaitGroup
	for i, member := range []testMember{m1, m2} {
		for _, pos := range positions {
			wg.Add(1)
			go func(senderID string, pos float64, i int) {
				defer wg.Done()
				_, err := s.Seek(ctx, &SeekParams{Position: pos + float64(i), SenderID: senderID, Code: createResp.Code})
				assert.NoError(t, err)
			}(member.id, pos, i)
		}
	}
	wg.Wait()

	state, err := s.GetRoomState(ctx, createResp.Code)
	require.NoError(t, err)

	valid := map[float64]bool{}
	for i := range []testMember{m1, m2} {
		for _, pos := range positions {
			valid[pos+float64(i)] = true
		}
	}
	assert.True(t, valid[state.Player.Position], "position %v must be one of the submitted values, never torn", state.Player.Position)
}
