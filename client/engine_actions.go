package client

import (
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/justmike2000/itemwars/model"
)

// Join performs the blocking handshake: validate the name, fetch the
// world to guard against duplicate names, join, and seat both players at
// their spawn positions from the snapshot. Any failure here is fatal to
// the caller; gameplay cannot proceed without an initial snapshot.
func Join(cfg Config) (*Engine, error) {
	if err := model.ValidatePlayerName(cfg.Player); err != nil {
		return nil, err
	}
	if cfg.GameID == "" {
		return nil, fmt.Errorf("no game id provided")
	}

	world, err := getWorld(cfg)
	if err != nil {
		return nil, fmt.Errorf("join handshake: %w", err)
	}
	if !world.Started && world.FindPlayer(cfg.Player) != nil {
		return nil, fmt.Errorf("game %s already has player %q", cfg.GameID, cfg.Player)
	}

	snapshot, err := joinGame(cfg)
	if err != nil {
		return nil, fmt.Errorf("join handshake: %w", err)
	}

	playerPos := model.Position{X: 100.0, Y: 100.0, W: model.PlayerCellWidth, H: model.PlayerCellHeight}
	opponentPos := playerPos
	for _, p := range snapshot.Players {
		if p.Name == cfg.Player {
			playerPos.X = p.Body.X
			playerPos.Y = p.Body.Y
		} else {
			opponentPos.X = p.Body.X
			opponentPos.Y = p.Body.Y
		}
	}

	e := &Engine{
		Player:   model.NewPlayer(cfg.Player, playerPos),
		Opponent: model.NewPlayer("", opponentPos),
		Food: &model.Potion{
			Pos: model.Position{
				X: rand.Float32() * model.ScreenWidth,
				Y: rand.Float32() * model.ScreenHeight,
				W: model.PotionWidth,
				H: model.PotionHeight,
			},
			Type: model.PotionHealth,
		},
		cfg:        cfg,
		opponentCh: make(chan []float32, 1),
		posCh:      make(chan model.Player, 1),
		readyCh:    make(chan struct{}),
		startedCh:  make(chan struct{}),
		done:       make(chan struct{}),
	}
	return e, nil
}

// Start launches the three background loops: position sender, opponent
// poller, ready poller.
func (e *Engine) Start() {
	go e.sendLoop()
	go e.pollLoop()
	go e.readyLoop()
}

// sendLoop drains the position hand-off and fires each snapshot at the
// server. It never waits for replies.
func (e *Engine) sendLoop() {
	for {
		select {
		case <-e.done:
			return
		case p := <-e.posCh:
			if err := sendPosition(e.cfg, p); err != nil {
				log.Warnf("sendLoop: %v", err)
			}
		}
	}
}

// pollLoop requests the opponent snapshot on a fixed minimum interval and
// hands the newest one to the main loop. A timeout is a dropped update.
func (e *Engine) pollLoop() {
	ticker := time.NewTicker(NetPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			opponent, err := getOpponent(e.cfg)
			if err != nil {
				continue
			}
			offerSnapshot(e.opponentCh, opponent)
		}
	}
}

// readyLoop waits for the session to start, then polls the ready endpoint
// until both players are ready and signals the main loop once.
func (e *Engine) readyLoop() {
	select {
	case <-e.done:
		return
	case <-e.startedCh:
	}
	ticker := time.NewTicker(ReadyCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			ready, err := sendReady(e.cfg)
			if err != nil {
				log.Warnf("readyLoop: %v", err)
				continue
			}
			if ready {
				close(e.readyCh)
				return
			}
		}
	}
}

// offerSnapshot is the latest-value hand-off: a pending unconsumed value
// is displaced rather than queued behind.
func offerSnapshot(ch chan []float32, v []float32) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func offerPosition(ch chan model.Player, p model.Player) {
	for {
		select {
		case ch <- p:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Step advances the client one frame. It never blocks on the network:
// waiting-phase polls are paced by their intervals, and steady-state data
// arrives through the non-blocking hand-offs.
func (e *Engine) Step(now time.Time) {
	if !e.Started {
		if now.Sub(e.lastNetUpdate) < StartCheckInterval {
			return
		}
		world, err := getWorld(e.cfg)
		if err != nil {
			log.Warnf("start check: %v", err)
			e.lastNetUpdate = now
			return
		}
		if !world.Started {
			log.Infof("Waiting for game %s to start...", e.cfg.GameID)
			e.lastNetUpdate = now
			return
		}
		if name, err := getOpponentName(e.cfg); err == nil {
			e.Opponent.Name = name
		}
		log.Info("Game started!")
		e.Started = true
		close(e.startedCh)
	}

	select {
	case snapshot := <-e.opponentCh:
		e.applyOpponent(snapshot, now)
	default:
		e.reckonOpponent(now)
	}

	if !e.Ready {
		select {
		case <-e.readyCh:
			e.Ready = true
			log.Info("Game ready!")
		default:
			return
		}
	}

	if now.Sub(e.lastStep) >= StepInterval {
		if !e.GameOver {
			e.Player.Update(true)
			e.Opponent.Update(false)
		}
		e.lastStep = now
	}

	if e.Player.IsMoving() || e.Player.Jumping {
		offerPosition(e.posCh, *e.Player)
	}
}

// applyOpponent mirrors a received snapshot vector into the opponent copy
// and records it for dead reckoning.
func (e *Engine) applyOpponent(v []float32, now time.Time) {
	if len(v) < 5 {
		return
	}
	e.Opponent.Body.X = v[0]
	e.Opponent.Body.Y = v[1]
	e.Opponent.Dir = model.DirectionFromCode(v[2])
	e.Opponent.Jumping = v[3] != 0.0
	e.Opponent.CurrentAccel = v[4]
	if len(v) > 5 {
		e.Opponent.AnimationFrame = v[5]
	}

	sample := opponentSample{x: v[0], y: v[1], dir: e.Opponent.Dir.Code(), at: now}
	if len(e.samples) < 2 {
		e.samples = append(e.samples, sample)
	} else {
		e.samples[0] = e.samples[1]
		e.samples[1] = sample
	}
	e.lastRecv = now
}

// reckonOpponent estimates the opponent's position when the poll has gone
// quiet for longer than the gap between the last two snapshots: each axis
// is scaled by the ratio of the two received coordinates, clamped to the
// base movement speed, then the last-direction flags and the sample pair
// are cleared so the estimate is applied once and never compounds.
func (e *Engine) reckonOpponent(now time.Time) {
	if !e.Started || len(e.samples) != 2 {
		return
	}
	gap := e.samples[1].at.Sub(e.samples[0].at)
	if now.Sub(e.lastRecv) <= gap || !e.Opponent.IsMoving() {
		return
	}

	changeX := e.samples[1].x / e.samples[0].x
	if changeX > model.PlayerMoveSpeed {
		changeX = model.PlayerMoveSpeed
	}
	e.Opponent.Body.X *= changeX

	changeY := e.samples[1].y / e.samples[0].y
	if changeY > model.PlayerMoveSpeed {
		changeY = model.PlayerMoveSpeed
	}
	e.Opponent.Body.Y *= changeY

	e.Opponent.ResetLastDir()
	e.samples = e.samples[:0]
}
