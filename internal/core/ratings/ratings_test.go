package ratings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kumite/kumite/internal/core/observability/log"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		store, err := NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("missing agent has no entry", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		_, ok, err := store.Get(ctx, "drunken-master")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		require.NoError(t, store.Put(ctx, "crane", 1512.5))
		rating, ok, err := store.Get(ctx, "crane")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 1512.5, rating)
	})

	t.Run("put overwrites", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		require.NoError(t, store.Put(ctx, "mantis", 1500))
		require.NoError(t, store.Put(ctx, "mantis", 1532))
		rating, ok, err := store.Get(ctx, "mantis")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, float64(1532), rating)
	})

	t.Run("all lists every agent", func(t *testing.T) {
		store := newStore(t)
		defer store.Close()

		require.NoError(t, store.Put(ctx, "crane", 1510))
		require.NoError(t, store.Put(ctx, "mantis", 1490))
		all, err := store.All(ctx)
		require.NoError(t, err)
		require.Equal(t, map[string]float64{"crane": 1510, "mantis": 1490}, all)
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "elo.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "tiger", 1544))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	rating, ok, err := reopened.Get(ctx, "tiger")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float64(1544), rating)
}

func TestExpected(t *testing.T) {
	require.InDelta(t, 0.5, Expected(1500, 1500), 1e-9)
	require.InDelta(t, 1.0, Expected(1500, 1500)+Expected(1500, 1500), 1e-9)

	stronger := Expected(1700, 1500)
	require.Greater(t, stronger, 0.7)
	require.InDelta(t, 1.0, stronger+Expected(1500, 1700), 1e-9)
}

func TestBookRecord(t *testing.T) {
	ctx := context.Background()

	newBook := func(t *testing.T) *Book {
		return NewBook(NewMemoryStore(), Config{}, log.Nop())
	}

	t.Run("first match between equals", func(t *testing.T) {
		book := newBook(t)
		newA, newB, err := book.Record(ctx, "crane", "mantis", OutcomeA)
		require.NoError(t, err)
		require.InDelta(t, 1516, newA, 1e-9)
		require.InDelta(t, 1484, newB, 1e-9)
	})

	t.Run("draw between equals changes nothing", func(t *testing.T) {
		book := newBook(t)
		newA, newB, err := book.Record(ctx, "crane", "mantis", OutcomeDraw)
		require.NoError(t, err)
		require.InDelta(t, 1500, newA, 1e-9)
		require.InDelta(t, 1500, newB, 1e-9)
	})

	t.Run("upset moves more points", func(t *testing.T) {
		book := newBook(t)
		store := book.store
		require.NoError(t, store.Put(ctx, "champ", 1700))
		require.NoError(t, store.Put(ctx, "rookie", 1500))

		newChamp, newRookie, err := book.Record(ctx, "champ", "rookie", OutcomeB)
		require.NoError(t, err)
		require.Less(t, newChamp, 1700.0)
		require.Greater(t, newRookie, 1500.0)
		// Winner gains exactly what the loser sheds.
		require.InDelta(t, 3200, newChamp+newRookie, 1e-9)
		require.Greater(t, newRookie-1500, 16.0)
	})

	t.Run("self match rejected", func(t *testing.T) {
		book := newBook(t)
		_, _, err := book.Record(ctx, "crane", "crane", OutcomeA)
		require.Error(t, err)
	})
}

func TestBookStandings(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	book := NewBook(store, Config{K: 32, Initial: 1500}, log.Nop())
	_, _, err = book.Record(ctx, "crane", "mantis", OutcomeA)
	require.NoError(t, err)
	_, _, err = book.Record(ctx, "crane", "tiger", OutcomeA)
	require.NoError(t, err)

	standings, err := book.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	require.Equal(t, "crane", standings[0].ID)
	for i := 1; i < len(standings); i++ {
		require.GreaterOrEqual(t, standings[i-1].Rating, standings[i].Rating)
	}
}
