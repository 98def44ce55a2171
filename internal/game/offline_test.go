package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

// offlineEnv returns an engine producing 10 carrots/s with an anchored
// last-seen timestamp.
func offlineEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	env := newTestEngine(t, Options{})
	env.fund(t, 1000, 0)

	_, err := env.engine.PurchaseBuilding(ctx, "carrot_silo")
	require.NoError(t, err)
	require.Equal(t, 10.0, env.engine.Production().Total)

	require.NoError(t, env.engine.Touch(ctx))
	return env
}

func TestReconcileOffline_FirstSessionOnlyAnchors(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{})

	res, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Earned)

	w := env.balance(t)
	assert.Equal(t, env.clock.Now(), w.LastSeenAt)
}

func TestReconcileOffline_GrantsReducedRateEarnings(t *testing.T) {
	ctx := context.Background()
	env := offlineEnv(t)

	env.clock.Advance(time.Hour)
	res, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 3600.0, res.TimeAwaySeconds, 1e-9)
	assert.InDelta(t, 36000.0, res.FullRateAmount, 1e-9)
	assert.InDelta(t, 0.5, res.Efficiency, 1e-9)
	assert.InDelta(t, 18000.0, res.Earned, 1e-9, "half the live rate while away")
}

func TestReconcileOffline_DoesNotDoubleCount(t *testing.T) {
	ctx := context.Background()
	env := offlineEnv(t)

	env.clock.Advance(time.Hour)
	first, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)
	require.Greater(t, first.Earned, 0.0)

	// The clock has not moved; the window was consumed by the first call.
	second, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Earned)
	assert.Zero(t, second.TimeAwaySeconds)
}

func TestReconcileOffline_ClockSkewGrantsNothing(t *testing.T) {
	ctx := context.Background()
	env := offlineEnv(t)

	env.clock.Advance(-time.Hour)
	res, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)

	assert.Zero(t, res.Earned)
	assert.Zero(t, res.TimeAwaySeconds)

	// The anchor still advances to now, so moving forward again does not
	// replay the skewed hour.
	env.clock.Advance(30 * time.Minute)
	res, err = env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1800.0, res.TimeAwaySeconds, 1e-9)
}

func TestReconcileOffline_AbilityAndUpgradeRaiseEfficiency(t *testing.T) {
	ctx := context.Background()
	env := offlineEnv(t)

	// Comet's offline ability is +20 points, burrow_blanket +10.
	require.NoError(t, env.rabbits.Add(ctx, rabbit.Owned{RabbitID: "comet", Level: 1}))
	require.NoError(t, env.engine.SetActiveTeam(ctx, []string{"comet"}))
	require.NoError(t, env.upgrades.MarkOwned(ctx, "burrow_blanket"))
	require.NoError(t, env.engine.Recompute(ctx))
	require.NoError(t, env.engine.Touch(ctx))

	env.clock.Advance(time.Hour)
	res, err := env.engine.ReconcileOffline(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.Efficiency, 1e-9)
}
