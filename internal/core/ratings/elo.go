package ratings

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kumite/kumite/internal/core/observability/log"
)

const (
	// DefaultRating is the rating assigned to an agent before its first
	// recorded match.
	DefaultRating = 1500
	// DefaultK is the stock K-factor.
	DefaultK = 32
)

// Outcome is the result of one match from the perspective of the (a, b)
// pair passed to Record.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeA
	OutcomeB
)

func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "a"
	case OutcomeB:
		return "b"
	default:
		return "draw"
	}
}

// Config tunes the Elo bookkeeping. Zero values fall back to the stock
// constants.
type Config struct {
	K       float64 `json:"k,omitempty" yaml:"k,omitempty"`
	Initial float64 `json:"initial,omitempty" yaml:"initial,omitempty"`
}

func (c Config) withDefaults() Config {
	if c.K == 0 {
		c.K = DefaultK
	}
	if c.Initial == 0 {
		c.Initial = DefaultRating
	}
	return c
}

// Expected is the probability that a beats b under the Elo model.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Standing is one row of the leaderboard.
type Standing struct {
	ID     string  `json:"id"`
	Rating float64 `json:"rating"`
}

// Book applies match results to a store. Updates are serialized so
// concurrent matches cannot interleave read-modify-write cycles.
type Book struct {
	store Store
	cfg   Config
	log   log.Log
	mu    sync.Mutex
}

func NewBook(store Store, cfg Config, logger log.Log) *Book {
	if logger == nil {
		logger = log.Nop()
	}
	return &Book{store: store, cfg: cfg.withDefaults(), log: logger}
}

// Rating returns the current rating for id, or the initial rating when the
// agent has not fought yet.
func (b *Book) Rating(ctx context.Context, id string) (float64, error) {
	rating, ok, err := b.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return b.cfg.Initial, nil
	}
	return rating, nil
}

// Record applies one match result and returns the new ratings for a and b.
func (b *Book) Record(ctx context.Context, idA, idB string, outcome Outcome) (float64, float64, error) {
	if idA == idB {
		return 0, 0, fmt.Errorf("cannot record a match of %q against itself", idA)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ratingA, err := b.Rating(ctx, idA)
	if err != nil {
		return 0, 0, err
	}
	ratingB, err := b.Rating(ctx, idB)
	if err != nil {
		return 0, 0, err
	}

	var scoreA, scoreB float64
	switch outcome {
	case OutcomeA:
		scoreA = 1
	case OutcomeB:
		scoreB = 1
	default:
		scoreA, scoreB = 0.5, 0.5
	}

	newA := ratingA + b.cfg.K*(scoreA-Expected(ratingA, ratingB))
	newB := ratingB + b.cfg.K*(scoreB-Expected(ratingB, ratingA))

	if err = b.store.Put(ctx, idA, newA); err != nil {
		return 0, 0, err
	}
	if err = b.store.Put(ctx, idB, newB); err != nil {
		return 0, 0, err
	}

	b.log.Info("ratings updated",
		log.String("a", idA),
		log.Float64("rating_a", newA),
		log.String("b", idB),
		log.Float64("rating_b", newB),
		log.String("outcome", outcome.String()),
	)
	return newA, newB, nil
}

// Standings returns the leaderboard sorted by rating, best first.
func (b *Book) Standings(ctx context.Context) ([]Standing, error) {
	all, err := b.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Standing, 0, len(all))
	for id, rating := range all {
		out = append(out, Standing{ID: id, Rating: rating})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating == out[j].Rating {
			return out[i].ID < out[j].ID
		}
		return out[i].Rating > out[j].Rating
	})
	return out, nil
}
