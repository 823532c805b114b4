package arena

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kumite/kumite/internal/agent"
	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/observability/log"
	"github.com/kumite/kumite/internal/core/ratings"
)

func scripted(name string, id action.ID) Participant {
	return Participant{
		ID:  name,
		New: func() agent.Agent { return scriptedAgent{name: name, id: id} },
	}
}

func TestSeriesRoundRobin(t *testing.T) {
	ctx := context.Background()
	cat := arenaCatalog(t)
	cfg := testSimConfig()
	cfg.Gap = 20
	cfg.Health = 30
	envs := func() (Environment, error) { return NewSimEnv(cfg, cat.Buttons()), nil }

	book := ratings.NewBook(ratings.NewMemoryStore(), ratings.Config{}, log.Nop())
	s := NewSeries(cat, []Participant{
		scripted("basher", 1),
		scripted("dummy", 0),
	}, envs, SeriesConfig{Rounds: 2, Book: book})

	results, err := s.Run(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "basher", results[0].P1)
	require.Equal(t, 1, results[0].Winner)

	// Sides swap on the second round; the basher wins from either corner.
	require.Equal(t, "dummy", results[1].P1)
	require.Equal(t, 2, results[1].Winner)

	rb, err := book.Rating(ctx, "basher")
	require.NoError(t, err)
	rd, err := book.Rating(ctx, "dummy")
	require.NoError(t, err)
	require.Greater(t, rb, float64(ratings.DefaultRating))
	require.Less(t, rd, float64(ratings.DefaultRating))

	standings, err := book.Standings(ctx)
	require.NoError(t, err)
	require.Equal(t, "basher", standings[0].ID)
}

func TestSeriesParallel(t *testing.T) {
	cat := arenaCatalog(t)
	cfg := testSimConfig()
	cfg.Gap = 20
	cfg.Health = 30
	envs := func() (Environment, error) { return NewSimEnv(cfg, cat.Buttons()), nil }

	s := NewSeries(cat, []Participant{
		scripted("basher", 1),
		scripted("statue-a", 0),
		scripted("statue-b", 0),
	}, envs, SeriesConfig{Parallel: 3, MaxFrames: 50})

	results, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, 1, results[0].Winner, "basher beats statue-a")
	require.Equal(t, 1, results[1].Winner, "basher beats statue-b")
	require.Equal(t, 0, results[2].Winner, "two statues time out even")
}

func TestSeriesValidation(t *testing.T) {
	cat := arenaCatalog(t)
	envs := func() (Environment, error) { return NewSimEnv(testSimConfig(), cat.Buttons()), nil }

	t.Run("too few participants", func(t *testing.T) {
		s := NewSeries(cat, []Participant{scripted("alone", 0)}, envs, SeriesConfig{})
		_, err := s.Run(context.Background())
		require.ErrorIs(t, err, ErrTooFewParticipants)
	})

	t.Run("environment factory failure", func(t *testing.T) {
		broken := func() (Environment, error) { return nil, errors.New("cabinet unplugged") }
		s := NewSeries(cat, []Participant{
			scripted("a", 0),
			scripted("b", 0),
		}, broken, SeriesConfig{})
		_, err := s.Run(context.Background())
		require.ErrorContains(t, err, "cabinet unplugged")
	})
}
