// Package arena drives matches: it polls both agents once per frame,
// translates their catalog ids into press vectors, steps the environment
// and publishes telemetry. The game itself stays behind the Environment
// interface so the same loop runs against an emulator bridge, a replay or
// the built-in simulation.
package arena

import (
	"context"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

// Environment is one round of a two-player fight. Step takes the press
// vectors for both players and advances a single frame. Snapshots are
// reported from player one's corner; the caller mirrors them for player
// two.
type Environment interface {
	Reset(ctx context.Context) (gamestate.Snapshot, error)
	Step(ctx context.Context, p1, p2 action.Vector) (gamestate.Snapshot, error)
	Close() error
}

// SimConfig shapes the built-in simulation. The zero value picks defaults
// tuned so the stock range bands line up with attack reach.
type SimConfig struct {
	Width       int `yaml:"width" json:"width"`
	Gap         int `yaml:"gap" json:"gap"`
	Health      int `yaml:"health" json:"health"`
	WalkSpeed   int `yaml:"walk_speed" json:"walk_speed"`
	AttackRange int `yaml:"attack_range" json:"attack_range"`
	Damage      int `yaml:"damage" json:"damage"`
}

func (c SimConfig) withDefaults() SimConfig {
	if c.Width <= 0 {
		c.Width = 400
	}
	if c.Gap <= 0 {
		c.Gap = 240
	}
	if c.Health <= 0 {
		c.Health = 100
	}
	if c.WalkSpeed <= 0 {
		c.WalkSpeed = 4
	}
	if c.AttackRange <= 0 {
		c.AttackRange = 50
	}
	if c.Damage <= 0 {
		c.Damage = 10
	}
	return c
}

// SimEnv is a deterministic one-dimensional sparring environment: walk
// with LEFT/RIGHT, press B to strike, strikes land every frame the button
// is down and the opponent is in reach. It exists so matches and tests run
// without the real game. Not safe for concurrent use; drive it from a
// single match loop.
type SimEnv struct {
	cfg SimConfig

	left   int
	right  int
	attack int

	frame    uint64
	p1x, p2x int
	p1h, p2h int
	over     bool
	winner   int
	running  bool
	closed   bool
}

// NewSimEnv builds a simulation that reads vectors laid out in the given
// button order. Buttons the simulation does not model are inert.
func NewSimEnv(cfg SimConfig, buttons []string) *SimEnv {
	e := &SimEnv{cfg: cfg.withDefaults(), left: -1, right: -1, attack: -1}
	for i, b := range buttons {
		switch b {
		case "LEFT":
			e.left = i
		case "RIGHT":
			e.right = i
		case "B":
			e.attack = i
		}
	}
	return e
}

func (e *SimEnv) Reset(ctx context.Context) (gamestate.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return gamestate.Snapshot{}, err
	}
	if e.closed {
		return gamestate.Snapshot{}, ErrEnvClosed
	}
	e.frame = 0
	e.p1x = (e.cfg.Width - e.cfg.Gap) / 2
	e.p2x = (e.cfg.Width + e.cfg.Gap) / 2
	e.p1h = e.cfg.Health
	e.p2h = e.cfg.Health
	e.over = false
	e.winner = 0
	e.running = true
	return e.snapshot(), nil
}

func (e *SimEnv) Step(ctx context.Context, p1, p2 action.Vector) (gamestate.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return gamestate.Snapshot{}, err
	}
	if e.closed {
		return gamestate.Snapshot{}, ErrEnvClosed
	}
	if !e.running {
		return gamestate.Snapshot{}, ErrNotReset
	}
	if e.over {
		return e.snapshot(), ErrRoundOver
	}

	e.frame++
	e.p1x = e.clamp(e.p1x + e.dir(p1)*e.cfg.WalkSpeed)
	e.p2x = e.clamp(e.p2x + e.dir(p2)*e.cfg.WalkSpeed)

	inReach := abs(e.p2x-e.p1x) <= e.cfg.AttackRange
	if inReach && bitSet(p1, e.attack) {
		e.p2h -= e.cfg.Damage
	}
	if inReach && bitSet(p2, e.attack) {
		e.p1h -= e.cfg.Damage
	}

	switch {
	case e.p1h <= 0 && e.p2h <= 0:
		e.over = true
	case e.p2h <= 0:
		e.over, e.winner = true, 1
	case e.p1h <= 0:
		e.over, e.winner = true, 2
	}
	return e.snapshot(), nil
}

func (e *SimEnv) Close() error {
	e.closed = true
	return nil
}

func (e *SimEnv) dir(v action.Vector) int {
	d := 0
	if bitSet(v, e.right) {
		d++
	}
	if bitSet(v, e.left) {
		d--
	}
	return d
}

func (e *SimEnv) clamp(x int) int {
	if x < 0 {
		return 0
	}
	if x > e.cfg.Width {
		return e.cfg.Width
	}
	return x
}

func (e *SimEnv) snapshot() gamestate.Snapshot {
	return gamestate.Snapshot{
		Frame:        e.frame,
		PlayerX:      e.p1x,
		PlayerHealth: e.p1h,
		EnemyX:       e.p2x,
		EnemyHealth:  e.p2h,
		RoundOver:    e.over,
		Winner:       e.winner,
	}
}

func bitSet(v action.Vector, idx int) bool {
	return idx >= 0 && idx < len(v) && v[idx] != 0
}

func abs(d int) int {
	if d < 0 {
		return -d
	}
	return d
}
