package model

import (
	"fmt"
	"unicode"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Overlaps reports whether the two rectangles intersect. This is the
// equality the game uses for collisions: touching edges do not count.
func (p Position) Overlaps(o Position) bool {
	return p.X < o.X+o.W && p.X+p.W > o.X &&
		p.Y < o.Y+o.H && p.Y+p.H > o.Y
}

// Code flattens the direction flags into the wire float: 0 up, 1 down,
// 2 left, 3 right. Right doubles as the fallback bucket.
func (d Direction) Code() float32 {
	switch {
	case d.Up:
		return 0.0
	case d.Down:
		return 1.0
	case d.Left:
		return 2.0
	default:
		return 3.0
	}
}

// DirectionFromCode decodes the wire float back into flags. Each code has
// a tolerance band of 1.0 around it; anything past the left bucket, and
// any malformed value, lands on right.
func DirectionFromCode(v float32) Direction {
	switch {
	case v == 0.0:
		return Direction{Up: true}
	case abs(v-1.0) < 1.0:
		return Direction{Down: true}
	case abs(v-2.0) < 1.0:
		return Direction{Left: true}
	default:
		return Direction{Right: true}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (d Direction) Any() bool {
	return d.Up || d.Down || d.Left || d.Right
}

func NewPlayer(name string, pos Position) *Player {
	return &Player{
		Name:                 name,
		Body:                 pos,
		HP:                   PlayerMaxHP,
		MP:                   PlayerMaxMP,
		Str:                  PlayerMaxStr,
		CurrentAccel:         PlayerStartingAccel,
		JumpDirection:        true,
		AnimationTotalFrames: AnimationTotalFrames,
	}
}

// ValidatePlayerName enforces the wire constraint on names: at most 8
// characters, all alphanumeric. Names are matched exactly on the server,
// so anything else would never round-trip.
func ValidatePlayerName(name string) error {
	if len(name) > MaxPlayerNameLen {
		return fmt.Errorf("player name %q too long, max %d characters", name, MaxPlayerNameLen)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("invalid player name character %q", r)
		}
	}
	return nil
}

func (p *Player) IsMoving() bool {
	return p.Dir.Any()
}

func (p *Player) ResetLastDir() {
	p.LastDir = Direction{}
}

// MoveDirection applies one tick of intent-driven movement: acceleration
// builds toward the top speed, each held direction moves the body inside
// the screen bounds, and LastDir records which axes actually moved.
func (p *Player) MoveDirection() {
	p.ResetLastDir()
	if p.CurrentAccel < PlayerTopAccelSpeed {
		p.CurrentAccel += PlayerAccelSpeed
	}
	if p.Dir.Up && p.Body.Y > PlayerCellHeight {
		p.Body.Y -= PlayerMoveSpeed + p.CurrentAccel
		p.LastDir.Up = true
	}
	if p.Dir.Down && p.Body.Y < ScreenHeight-(PlayerCellHeight*2.0) {
		p.Body.Y += PlayerMoveSpeed + p.CurrentAccel
		p.LastDir.Down = true
	}
	if p.Dir.Left && p.Body.X > 0.0 {
		p.Body.X -= PlayerMoveSpeed + p.CurrentAccel
		p.LastDir.Left = true
	}
	if p.Dir.Right && p.Body.X < ScreenWidth-PlayerCellWidth {
		p.Body.X += PlayerMoveSpeed + p.CurrentAccel
		p.LastDir.Right = true
	}
}

// moveCooldown keeps sliding along the last moved axes while friction
// bleeds the acceleration off.
func (p *Player) moveCooldown() {
	if p.LastDir.Up && p.Body.Y > PlayerCellHeight {
		p.Body.Y -= PlayerMoveSpeed + p.CurrentAccel
	}
	if p.LastDir.Down && p.Body.Y < ScreenHeight-(PlayerCellHeight*2.0) {
		p.Body.Y += PlayerMoveSpeed + p.CurrentAccel
	}
	if p.LastDir.Left && p.Body.X > 0.0 {
		p.Body.X -= PlayerMoveSpeed + p.CurrentAccel
	}
	if p.LastDir.Right && p.Body.X < ScreenWidth-PlayerCellWidth {
		p.Body.X += PlayerMoveSpeed + p.CurrentAccel
	}
	if p.CurrentAccel > 0.0 {
		p.CurrentAccel -= PlayerAccelSpeed * MapFriction
	}
}

// jumpArc tweens the jump offset up to PlayerJumpHeight and back down.
type jumpArc struct {
	tween  *gween.Tween
	rising bool
}

func newJumpArc() *jumpArc {
	return &jumpArc{
		tween:  gween.New(0, PlayerJumpHeight, JumpHalfTicks, ease.Linear),
		rising: true,
	}
}

// step advances the arc by one tick and returns the new offset and
// whether the jump has landed.
func (j *jumpArc) step() (float32, bool) {
	offset, finished := j.tween.Update(1)
	if finished && j.rising {
		j.tween = gween.New(PlayerJumpHeight, 0, JumpHalfTicks, ease.Linear)
		j.rising = false
		return offset, false
	}
	if finished {
		return 0, true
	}
	return offset, false
}

// Update advances one simulation tick. The jump arc always runs; movement
// only when doMove is set, which is how the local player is simulated
// while the mirrored opponent copy is not.
func (p *Player) Update(doMove bool) {
	if p.Jumping {
		if p.jump == nil {
			p.jump = newJumpArc()
		}
		offset, landed := p.jump.step()
		p.JumpOffset = offset
		p.JumpDirection = p.jump.rising
		if landed {
			p.Jumping = false
			p.JumpOffset = 0.0
			p.JumpDirection = true
			p.jump = nil
		}
	} else {
		p.JumpOffset = 0.0
		p.jump = nil
	}
	if doMove {
		if p.IsMoving() {
			p.MoveDirection()
		} else if p.CurrentAccel > PlayerStartingAccel {
			p.moveCooldown()
		}
	}
}

// FindPlayer returns the named player, or nil.
func (g *NetworkedGame) FindPlayer(name string) *Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindOpponent returns the first player whose name differs, or nil.
func (g *NetworkedGame) FindOpponent(name string) *Player {
	for _, p := range g.Players {
		if p.Name != name {
			return p
		}
	}
	return nil
}

// AddPlayer appends a new player at the next spawn and flips Started when
// the session fills up. It reports false without mutating anything when
// the session is already full.
func (g *NetworkedGame) AddPlayer(name string) bool {
	if len(g.Players) >= MaxPlayers {
		return false
	}
	g.Players = append(g.Players, NewPlayer(name, SpawnPosition(len(g.Players))))
	if len(g.Players) == MaxPlayers {
		g.Started = true
	}
	return true
}

// AllReady reports whether both players have raised their ready flag.
func (g *NetworkedGame) AllReady() bool {
	ready := 0
	for _, p := range g.Players {
		if p.Ready {
			ready++
		}
	}
	return ready == MaxPlayers
}
