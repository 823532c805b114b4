package arena

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kumite/kumite/internal/agent"
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/events"
	"github.com/kumite/kumite/internal/core/observability/log"
	"github.com/kumite/kumite/internal/core/ratings"
)

// EnvFactory builds a fresh environment for one match. Every match gets
// its own so matches can run concurrently.
type EnvFactory func() (Environment, error)

// Participant is one entrant in a series. New must return a fresh agent
// per call; agents carry per-match state and cannot be shared between
// concurrent matches. ID keys the ratings book and should match the name
// the agents report.
type Participant struct {
	ID  string
	New func() agent.Agent
}

// SeriesConfig tunes a round-robin series. Book and Hub are optional.
type SeriesConfig struct {
	// Rounds is the number of matches per pairing. Sides swap on odd
	// rounds so neither entrant always plays player one.
	Rounds int
	// Parallel caps concurrent matches. Defaults to 1, which keeps the
	// result order deterministic.
	Parallel  int
	MaxFrames int
	Hub       *events.Hub
	Book      *ratings.Book
	Log       log.Log
}

// Series plays every pairing of its participants and feeds the outcomes
// into the ratings book.
type Series struct {
	catalog      *action.Catalog
	participants []Participant
	envs         EnvFactory
	cfg          SeriesConfig
	log          log.Log
}

func NewSeries(catalog *action.Catalog, participants []Participant, envs EnvFactory, cfg SeriesConfig) *Series {
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.Nop()
	}
	return &Series{
		catalog:      catalog,
		participants: participants,
		envs:         envs,
		cfg:          cfg,
		log:          logger,
	}
}

// Run plays the full round robin. Results come back in schedule order
// regardless of parallelism. The first match error cancels the rest.
func (s *Series) Run(ctx context.Context) ([]Result, error) {
	if len(s.participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	type job struct {
		a, b int // participant indexes, a plays player one
	}
	var jobs []job
	for i := range s.participants {
		for j := i + 1; j < len(s.participants); j++ {
			for r := 0; r < s.cfg.Rounds; r++ {
				if r%2 == 0 {
					jobs = append(jobs, job{a: i, b: j})
				} else {
					jobs = append(jobs, job{a: j, b: i})
				}
			}
		}
	}
	s.log.Info("series starting",
		log.Int("participants", len(s.participants)),
		log.Int("matches", len(jobs)),
	)

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Parallel)
	for k, jb := range jobs {
		k := k
		pa, pb := s.participants[jb.a], s.participants[jb.b]
		g.Go(func() error {
			env, err := s.envs()
			if err != nil {
				return fmt.Errorf("build environment: %w", err)
			}
			defer func() { _ = env.Close() }()

			m := NewMatch(pa.New(), pb.New(), env, s.catalog, MatchConfig{
				MaxFrames: s.cfg.MaxFrames,
				Hub:       s.cfg.Hub,
				Log:       s.log,
			})
			res, err := m.Run(ctx)
			if err != nil {
				return fmt.Errorf("match %s vs %s: %w", pa.ID, pb.ID, err)
			}
			results[k] = res

			if s.cfg.Book != nil {
				outcome := ratings.OutcomeDraw
				switch res.Winner {
				case 1:
					outcome = ratings.OutcomeA
				case 2:
					outcome = ratings.OutcomeB
				}
				if _, _, err := s.cfg.Book.Record(ctx, pa.ID, pb.ID, outcome); err != nil {
					return fmt.Errorf("record %s vs %s: %w", pa.ID, pb.ID, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
