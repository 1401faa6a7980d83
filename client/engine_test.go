package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justmike2000/itemwars/model"
	"github.com/justmike2000/itemwars/protocol"
	"github.com/justmike2000/itemwars/server"
)

func newTestServer(t *testing.T) *server.GameServer {
	t.Helper()
	srv := server.NewGameServer(server.Config{Addr: "127.0.0.1:0"})
	require.NoError(t, srv.Listen())
	go srv.Run()
	t.Cleanup(srv.Stop)
	return srv
}

func newGame(t *testing.T, srv *server.GameServer) string {
	t.Helper()
	id, err := protocol.Send(srv.Addr().String(), protocol.Request{
		Action: protocol.ActionNewGame,
	}, true)
	require.NoError(t, err)
	return id
}

func newTestEngine() *Engine {
	return &Engine{
		Player:     model.NewPlayer("alice", model.SpawnPosition(0)),
		Opponent:   model.NewPlayer("bob", model.SpawnPosition(1)),
		opponentCh: make(chan []float32, 1),
		posCh:      make(chan model.Player, 1),
		readyCh:    make(chan struct{}),
		startedCh:  make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func TestOfferSnapshotLatestWins(t *testing.T) {
	ch := make(chan []float32, 1)

	offerSnapshot(ch, []float32{1})
	offerSnapshot(ch, []float32{2})
	offerSnapshot(ch, []float32{3})

	assert.Equal(t, []float32{3}, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("expected empty hand-off, got %v", v)
	default:
	}
}

func TestOfferPositionLatestWins(t *testing.T) {
	ch := make(chan model.Player, 1)

	offerPosition(ch, model.Player{Name: "a"})
	offerPosition(ch, model.Player{Name: "b"})

	assert.Equal(t, "b", (<-ch).Name)
}

func TestJoinValidatesBeforeAnyNetwork(t *testing.T) {
	_, err := Join(Config{Server: "127.0.0.1:1", Player: "waytoolongname", GameID: "1"})
	assert.Error(t, err)

	_, err = Join(Config{Server: "127.0.0.1:1", Player: "alice", GameID: ""})
	assert.Error(t, err)
}

func TestJoinRejectsDuplicateName(t *testing.T) {
	srv := newTestServer(t)
	id := newGame(t, srv)
	cfg := Config{Server: srv.Addr().String(), Player: "alice", GameID: id}

	_, err := Join(cfg)
	require.NoError(t, err)

	_, err = Join(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has player")
}

func TestJoinHandshakeSeatsBothPlayers(t *testing.T) {
	srv := newTestServer(t)
	id := newGame(t, srv)

	alice, err := Join(Config{Server: srv.Addr().String(), Player: "alice", GameID: id})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingStart, alice.State())
	assert.Equal(t, float32(100.0), alice.Player.Body.X)
	assert.Equal(t, float32(250.0), alice.Player.Body.Y)

	bob, err := Join(Config{Server: srv.Addr().String(), Player: "bob", GameID: id})
	require.NoError(t, err)
	assert.Equal(t, float32(500.0), bob.Player.Body.X)
	assert.Equal(t, float32(100.0), bob.Opponent.Body.X)

	// First step polls the world, sees it started, learns the opponent.
	alice.Step(time.Now())
	assert.True(t, alice.Started)
	assert.Equal(t, StateAwaitingReady, alice.State())
	assert.Equal(t, "bob", alice.Opponent.Name)
}

func TestTwoClientsReachPlaying(t *testing.T) {
	srv := newTestServer(t)
	id := newGame(t, srv)

	alice, err := Join(Config{Server: srv.Addr().String(), Player: "alice", GameID: id})
	require.NoError(t, err)
	bob, err := Join(Config{Server: srv.Addr().String(), Player: "bob", GameID: id})
	require.NoError(t, err)

	alice.Start()
	bob.Start()
	defer alice.Close()
	defer bob.Close()

	require.Eventually(t, func() bool {
		now := time.Now()
		alice.Step(now)
		bob.Step(now)
		return alice.State() == StatePlaying && bob.State() == StatePlaying
	}, 5*time.Second, 10*time.Millisecond)
}

func TestApplyOpponentKeepsLastTwoSamples(t *testing.T) {
	e := newTestEngine()
	base := time.Now()

	e.applyOpponent([]float32{10, 20, 1.0, 0, 0.4}, base)
	e.applyOpponent([]float32{11, 21, 1.0, 0, 0.4}, base.Add(10*time.Millisecond))
	e.applyOpponent([]float32{12, 22, 1.0, 1.0, 0.6}, base.Add(20*time.Millisecond))

	require.Len(t, e.samples, 2)
	assert.Equal(t, float32(11), e.samples[0].x)
	assert.Equal(t, float32(12), e.samples[1].x)
	assert.Equal(t, float32(12), e.Opponent.Body.X)
	assert.Equal(t, float32(22), e.Opponent.Body.Y)
	assert.Equal(t, model.Direction{Down: true}, e.Opponent.Dir)
	assert.True(t, e.Opponent.Jumping)
	assert.Equal(t, float32(0.6), e.Opponent.CurrentAccel)
	assert.Equal(t, base.Add(20*time.Millisecond), e.lastRecv)
}

func TestReckonScalesByRatioAndClamps(t *testing.T) {
	e := newTestEngine()
	e.Started = true
	base := time.Now()

	// Shrinking x ratio, growing y ratio: x scales, y clamps to the base
	// movement speed multiplier and stays put.
	e.applyOpponent([]float32{200, 100, 2.0, 0, 0.4}, base)
	e.applyOpponent([]float32{100, 150, 2.0, 0, 0.4}, base.Add(10*time.Millisecond))

	e.reckonOpponent(base.Add(50 * time.Millisecond))

	assert.InDelta(t, 50.0, e.Opponent.Body.X, 1e-3)
	assert.InDelta(t, 150.0, e.Opponent.Body.Y, 1e-3)
	assert.Equal(t, model.Direction{}, e.Opponent.LastDir)
	assert.Empty(t, e.samples)
}

func TestReckonWaitsForSnapshotGap(t *testing.T) {
	e := newTestEngine()
	e.Started = true
	base := time.Now()

	e.applyOpponent([]float32{200, 100, 2.0, 0, 0.4}, base)
	e.applyOpponent([]float32{100, 100, 2.0, 0, 0.4}, base.Add(100*time.Millisecond))

	// The poll has not been quiet longer than the sample gap yet.
	e.reckonOpponent(base.Add(150 * time.Millisecond))

	assert.Equal(t, float32(100), e.Opponent.Body.X)
	assert.Len(t, e.samples, 2)
}

func TestReckonRequiresMovingOpponent(t *testing.T) {
	e := newTestEngine()
	e.Started = true
	base := time.Now()

	e.applyOpponent([]float32{200, 100, 3.0, 0, 0.4}, base)
	e.applyOpponent([]float32{100, 100, 3.0, 0, 0.4}, base.Add(10*time.Millisecond))
	e.Opponent.Dir = model.Direction{}

	e.reckonOpponent(base.Add(time.Second))

	assert.Equal(t, float32(100), e.Opponent.Body.X)
	assert.Len(t, e.samples, 2)
}

func TestPositionVectorLayout(t *testing.T) {
	p := model.NewPlayer("alice", model.SpawnPosition(0))
	p.Body.X = 10
	p.Body.Y = 20
	p.Dir = model.Direction{Down: true}
	p.Jumping = true
	p.AnimationFrame = 0.25
	p.LastDir = model.Direction{Left: true}

	v := positionVector(*p)

	assert.Equal(t, [protocol.PositionUpdateLen]float32{10, 20, 1.0, 1.0, 0.25, 2.0}, v)

	decoded, err := protocol.DecodePositionUpdate(protocol.EncodePositionUpdate(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}
