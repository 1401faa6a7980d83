// Package client runs the player-side sync engine: it pushes the local
// player's position to the server, polls the opponent's, and papers over
// stale or missing updates so the main loop never waits on the network.
package client

import (
	"time"

	"github.com/justmike2000/itemwars/model"
)

// State mirrors the session lifecycle as seen from this client.
type State int

const (
	StateConnecting State = iota + 1
	StateAwaitingStart
	StateAwaitingReady
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingStart:
		return "awaiting-start"
	case StateAwaitingReady:
		return "awaiting-ready"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

const (
	// StepInterval is the local simulation rate.
	StepInterval = 16 * time.Millisecond
	// NetPollInterval is the minimum spacing between opponent polls; each
	// poll is a full round-trip, so the real rate is latency-bound.
	NetPollInterval = time.Millisecond
	// StartCheckInterval spaces the getworld polls while waiting for the
	// second player.
	StartCheckInterval = 500 * time.Millisecond
	// ReadyCheckInterval spaces the ready polls once the session started.
	ReadyCheckInterval = 100 * time.Millisecond
)

type Config struct {
	Server string
	Player string
	GameID string
}

// opponentSample is one received opponent snapshot, timestamped on
// arrival. The engine keeps the last two to estimate update cadence.
type opponentSample struct {
	x, y, dir float32
	at        time.Time
}

// Engine drives one client's view of a session. Step is the only method
// the main loop calls; everything network-bound runs on background
// goroutines communicating through depth-1 latest-wins channels.
type Engine struct {
	Player   *model.Player
	Opponent *model.Player
	Food     *model.Potion

	Started  bool
	Ready    bool
	GameOver bool

	cfg Config

	lastNetUpdate time.Time
	lastStep      time.Time
	lastRecv      time.Time
	samples       []opponentSample

	opponentCh chan []float32
	posCh      chan model.Player
	readyCh    chan struct{}
	startedCh  chan struct{}
	done       chan struct{}
}

// State reports where this client is in the session lifecycle.
func (e *Engine) State() State {
	switch {
	case e.Player == nil:
		return StateConnecting
	case e.Ready:
		return StatePlaying
	case e.Started:
		return StateAwaitingReady
	default:
		return StateAwaitingStart
	}
}

// Close stops the background loops. Safe to call once.
func (e *Engine) Close() {
	close(e.done)
}
