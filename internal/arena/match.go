package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kumite/kumite/internal/agent"
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/events"
	"github.com/kumite/kumite/internal/core/observability/log"
)

// DefaultMaxFrames caps a match at one minute of decisions at 60 per second.
const DefaultMaxFrames = 3600

// MatchConfig tunes one match. Hub and Log are optional.
type MatchConfig struct {
	// MaxFrames caps the number of decision frames before the match is
	// judged on remaining health.
	MaxFrames int
	// FrameDelay paces the loop for live spectating. Zero runs the match
	// as fast as the environment steps.
	FrameDelay time.Duration
	Hub        *events.Hub
	Log        log.Log
}

// Result is the outcome of a finished match. Winner is 1 or 2 in player
// order, 0 for a draw. Frames counts decisions, which is fewer than
// environment frames when a skip policy wraps the environment.
type Result struct {
	MatchID string `json:"match_id"`
	P1      string `json:"p1"`
	P2      string `json:"p2"`
	Winner  int    `json:"winner"`
	Frames  uint64 `json:"frames"`
}

// Match runs one fight between two agents to completion.
type Match struct {
	id         string
	p1, p2     agent.Agent
	env        Environment
	catalog    *action.Catalog
	hub        *events.Hub
	log        log.Log
	maxFrames  uint64
	frameDelay time.Duration
}

func NewMatch(p1, p2 agent.Agent, env Environment, catalog *action.Catalog, cfg MatchConfig) *Match {
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = DefaultMaxFrames
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.Nop()
	}
	return &Match{
		id:         uuid.NewString(),
		p1:         p1,
		p2:         p2,
		env:        env,
		catalog:    catalog,
		hub:        cfg.Hub,
		log:        logger,
		maxFrames:  uint64(cfg.MaxFrames),
		frameDelay: cfg.FrameDelay,
	}
}

func (m *Match) ID() string { return m.id }

// Run plays the match until the round ends or the frame cap is hit. On a
// timeout the player with more remaining health wins.
func (m *Match) Run(ctx context.Context) (Result, error) {
	snap, err := m.env.Reset(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reset environment: %w", err)
	}
	m.p1.Reset()
	m.p2.Reset()

	names := [2]string{m.p1.Name(), m.p2.Name()}
	m.publish(events.Event{Type: events.TypeMatchStarted, MatchID: m.id, Agents: names})
	m.log.Info("match started",
		log.String("match_id", m.id),
		log.String("p1", names[0]),
		log.String("p2", names[1]),
	)

	var frames uint64
	for !snap.RoundOver && frames < m.maxFrames {
		if err = ctx.Err(); err != nil {
			return Result{}, err
		}
		id1 := m.p1.SelectAction(snap)
		id2 := m.p2.SelectAction(snap.Mirrored())
		v1, _ := m.catalog.Vector(id1)
		v2, _ := m.catalog.Vector(id2)

		snap, err = m.env.Step(ctx, v1, v2)
		if err != nil {
			return Result{}, fmt.Errorf("step environment: %w", err)
		}
		frames++

		frameSnap := snap
		m.publish(events.Event{
			Type:     events.TypeFrame,
			MatchID:  m.id,
			Agents:   names,
			Frame:    snap.Frame,
			Snapshot: &frameSnap,
			Actions:  [2]int{int(id1), int(id2)},
		})

		if m.frameDelay > 0 && !snap.RoundOver {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(m.frameDelay):
			}
		}
	}

	winner := snap.Winner
	if !snap.RoundOver {
		// Time out: judge on remaining health.
		switch {
		case snap.PlayerHealth > snap.EnemyHealth:
			winner = 1
		case snap.EnemyHealth > snap.PlayerHealth:
			winner = 2
		default:
			winner = 0
		}
	}

	m.publish(events.Event{
		Type:    events.TypeMatchEnded,
		MatchID: m.id,
		Agents:  names,
		Frame:   snap.Frame,
		Winner:  winner,
	})
	m.log.Info("match finished",
		log.String("match_id", m.id),
		log.Int("winner", winner),
		log.Uint64("frames", frames),
	)
	return Result{MatchID: m.id, P1: names[0], P2: names[1], Winner: winner, Frames: frames}, nil
}

func (m *Match) publish(ev events.Event) {
	if m.hub == nil {
		return
	}
	m.hub.Publish(ev)
}
