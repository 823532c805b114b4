package arena

import (
	"context"
	"math/rand"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/gamestate"
)

// DeterministicSkip repeats each pair of decisions for a fixed number of
// environment frames, so agents decide at a coarser cadence than the
// simulation advances. The round ending cuts the repetition short.
type DeterministicSkip struct {
	env Environment
	n   int

	totalSteps   uint64
	skippedSteps uint64
}

func NewDeterministicSkip(env Environment, n int) *DeterministicSkip {
	if n < 1 {
		n = 1
	}
	return &DeterministicSkip{env: env, n: n}
}

func (s *DeterministicSkip) Reset(ctx context.Context) (gamestate.Snapshot, error) {
	return s.env.Reset(ctx)
}

func (s *DeterministicSkip) Step(ctx context.Context, p1, p2 action.Vector) (gamestate.Snapshot, error) {
	var snap gamestate.Snapshot
	var err error
	for i := 0; i < s.n; i++ {
		snap, err = s.env.Step(ctx, p1, p2)
		if err != nil {
			return snap, err
		}
		s.totalSteps++
		if i > 0 {
			s.skippedSteps++
		}
		if snap.RoundOver {
			break
		}
	}
	return snap, nil
}

func (s *DeterministicSkip) Close() error {
	return s.env.Close()
}

// Steps reports how many environment frames ran and how many of those were
// repeats of an earlier decision.
func (s *DeterministicSkip) Steps() (total, skipped uint64) {
	return s.totalSteps, s.skippedSteps
}

// StickySkip repeats decisions like DeterministicSkip but delays the
// switch to a new pair with probability StickProb on the first sub-frame,
// imitating the input latency of a human on a pad. From the second
// sub-frame the new pair always applies.
type StickySkip struct {
	env       Environment
	n         int
	stickProb float64
	rng       *rand.Rand

	primed     bool
	cur1, cur2 action.Vector
}

func NewStickySkip(env Environment, n int, stickProb float64, seed int64) *StickySkip {
	if n < 1 {
		n = 1
	}
	return &StickySkip{
		env:       env,
		n:         n,
		stickProb: stickProb,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *StickySkip) Reset(ctx context.Context) (gamestate.Snapshot, error) {
	s.primed = false
	s.cur1, s.cur2 = nil, nil
	return s.env.Reset(ctx)
}

func (s *StickySkip) Step(ctx context.Context, p1, p2 action.Vector) (gamestate.Snapshot, error) {
	var snap gamestate.Snapshot
	var err error
	for i := 0; i < s.n; i++ {
		switch {
		case !s.primed:
			// First step after reset, nothing to stick to.
			s.primed = true
			s.cur1, s.cur2 = p1, p2
		case i == 0:
			if s.rng.Float64() > s.stickProb {
				s.cur1, s.cur2 = p1, p2
			}
		case i == 1:
			s.cur1, s.cur2 = p1, p2
		}
		snap, err = s.env.Step(ctx, s.cur1, s.cur2)
		if err != nil {
			return snap, err
		}
		if snap.RoundOver {
			break
		}
	}
	return snap, nil
}

func (s *StickySkip) Close() error {
	return s.env.Close()
}
