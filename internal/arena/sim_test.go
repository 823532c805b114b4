package arena

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kumite/kumite/internal/core/action"
)

var simButtons = []string{"B", "LEFT", "RIGHT"}

func press(names ...string) action.Vector {
	v := make(action.Vector, len(simButtons))
	for _, n := range names {
		for i, b := range simButtons {
			if b == n {
				v[i] = 1
			}
		}
	}
	return v
}

func testSimConfig() SimConfig {
	return SimConfig{
		Width:       200,
		Gap:         60,
		Health:      20,
		WalkSpeed:   5,
		AttackRange: 30,
		Damage:      10,
	}
}

func TestSimEnvReset(t *testing.T) {
	env := NewSimEnv(testSimConfig(), simButtons)
	snap, err := env.Reset(context.Background())
	require.NoError(t, err)

	require.Equal(t, 70, snap.PlayerX)
	require.Equal(t, 130, snap.EnemyX)
	require.Equal(t, 20, snap.PlayerHealth)
	require.Equal(t, 20, snap.EnemyHealth)
	require.False(t, snap.RoundOver)
	require.EqualValues(t, 0, snap.Frame)
}

func TestSimEnvMovement(t *testing.T) {
	ctx := context.Background()
	env := NewSimEnv(testSimConfig(), simButtons)
	_, err := env.Reset(ctx)
	require.NoError(t, err)

	snap, err := env.Step(ctx, press("RIGHT"), press("LEFT"))
	require.NoError(t, err)
	require.Equal(t, 75, snap.PlayerX)
	require.Equal(t, 125, snap.EnemyX)
	require.EqualValues(t, 1, snap.Frame)

	// Opposing directions cancel out.
	snap, err = env.Step(ctx, press("LEFT", "RIGHT"), nil)
	require.NoError(t, err)
	require.Equal(t, 75, snap.PlayerX)
	require.Equal(t, 125, snap.EnemyX)
}

func TestSimEnvWallClamp(t *testing.T) {
	ctx := context.Background()
	env := NewSimEnv(testSimConfig(), simButtons)
	_, err := env.Reset(ctx)
	require.NoError(t, err)

	var x int
	for i := 0; i < 100; i++ {
		snap, err := env.Step(ctx, press("LEFT"), press("RIGHT"))
		require.NoError(t, err)
		x = snap.PlayerX
		require.GreaterOrEqual(t, snap.PlayerX, 0)
		require.LessOrEqual(t, snap.EnemyX, 200)
	}
	require.Equal(t, 0, x)
}

func TestSimEnvAttack(t *testing.T) {
	ctx := context.Background()
	env := NewSimEnv(testSimConfig(), simButtons)
	_, err := env.Reset(ctx)
	require.NoError(t, err)

	// Out of reach: the button does nothing.
	snap, err := env.Step(ctx, press("B"), nil)
	require.NoError(t, err)
	require.Equal(t, 20, snap.EnemyHealth)

	// Close the 60 pixel gap to attack range.
	for i := 0; i < 3; i++ {
		snap, err = env.Step(ctx, press("RIGHT"), press("LEFT"))
		require.NoError(t, err)
	}
	require.LessOrEqual(t, snap.DistanceX(), 30)

	snap, err = env.Step(ctx, press("B"), nil)
	require.NoError(t, err)
	require.Equal(t, 10, snap.EnemyHealth)
	require.Equal(t, 20, snap.PlayerHealth)
	require.False(t, snap.RoundOver)

	snap, err = env.Step(ctx, press("B"), nil)
	require.NoError(t, err)
	require.True(t, snap.RoundOver)
	require.Equal(t, 1, snap.Winner)
	require.Equal(t, 0, snap.EnemyHealth)
}

func TestSimEnvTrade(t *testing.T) {
	ctx := context.Background()
	cfg := testSimConfig()
	cfg.Gap = 20 // start inside attack range
	env := NewSimEnv(cfg, simButtons)
	_, err := env.Reset(ctx)
	require.NoError(t, err)

	var lastWinner int
	for i := 0; i < 2; i++ {
		snap, err := env.Step(ctx, press("B"), press("B"))
		require.NoError(t, err)
		if i == 1 {
			require.True(t, snap.RoundOver)
			lastWinner = snap.Winner
		}
	}
	require.Equal(t, 0, lastWinner, "simultaneous knockout is a draw")
}

func TestSimEnvLifecycle(t *testing.T) {
	ctx := context.Background()
	env := NewSimEnv(testSimConfig(), simButtons)

	_, err := env.Step(ctx, nil, nil)
	require.ErrorIs(t, err, ErrNotReset)

	cfg := testSimConfig()
	cfg.Gap = 20
	env = NewSimEnv(cfg, simButtons)
	_, err = env.Reset(ctx)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = env.Step(ctx, press("B"), nil)
		require.NoError(t, err)
	}
	_, err = env.Step(ctx, nil, nil)
	require.ErrorIs(t, err, ErrRoundOver)

	// Reset rearms a finished round.
	snap, err := env.Reset(ctx)
	require.NoError(t, err)
	require.False(t, snap.RoundOver)

	require.NoError(t, env.Close())
	_, err = env.Reset(ctx)
	require.ErrorIs(t, err, ErrEnvClosed)
	_, err = env.Step(ctx, nil, nil)
	require.ErrorIs(t, err, ErrEnvClosed)
}
