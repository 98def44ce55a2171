package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/events"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

func TestOpenCrate_ScriptedRollIsDeterministic(t *testing.T) {
	ctx := context.Background()
	// First draw resolves rarity (0.0 => common on the wooden table), second
	// draw resolves the unowned bias.
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 500, 0)

	res, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)

	assert.Equal(t, rabbit.Common, res.Drop.Rarity)
	assert.False(t, res.IsDuplicate)
	assert.False(t, res.PityTriggered)
	assert.Equal(t, 500.0, res.CostPaid)
	assert.Equal(t, "cottontail", res.Rabbit.ID, "unowned pool is walked in id order")

	o, ok, err := env.rabbits.Get(ctx, "cottontail")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, o.Level)

	assert.Zero(t, env.balance(t).Carrots, "crate cost is deducted")
}

func TestOpenCrate_RarityTableBoundaries(t *testing.T) {
	// Wooden table: common .55, uncommon .25, rare .12, epic .05,
	// legendary .025, mythical .005. Cumulative walk, roll < acc.
	cases := []struct {
		roll float64
		want rabbit.Rarity
	}{
		{0.54, rabbit.Common},
		{0.55, rabbit.Uncommon},
		{0.799, rabbit.Uncommon},
		{0.80, rabbit.Rare},
		{0.92, rabbit.Epic},
		{0.97, rabbit.Legendary},
		{0.9951, rabbit.Mythical},
	}
	for _, tc := range cases {
		ctx := context.Background()
		env := newTestEngine(t, Options{RNG: NewScriptedRNG(tc.roll)})
		env.fund(t, 500, 0)

		res, err := env.engine.OpenCrate(ctx, "wooden_crate")
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Drop.Rarity, "roll %v", tc.roll)
	}
}

func TestOpenCrate_EpicPityGuarantee(t *testing.T) {
	ctx := context.Background()
	// A roll of 0.0 would land common; the pity counter must override it.
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 500, 0)

	cfg := env.engine.cfg
	require.NoError(t, env.gacha.Update(ctx, crate.State{SinceEpic: cfg.Gacha.PityEpic - 1}))

	res, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)

	assert.Equal(t, rabbit.Epic, res.Drop.Rarity)
	assert.True(t, res.PityTriggered)

	st, err := env.gacha.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.SinceEpic, "guaranteed drop resets its counter")
}

func TestOpenCrate_HighestPityWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 500, 0)

	cfg := env.engine.cfg
	require.NoError(t, env.gacha.Update(ctx, crate.State{
		SinceEpic:      cfg.Gacha.PityEpic - 1,
		SinceLegendary: cfg.Gacha.PityLegendary - 1,
		SinceMythical:  cfg.Gacha.PityMythical - 1,
	}))

	res, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)
	assert.Equal(t, rabbit.Mythical, res.Drop.Rarity)

	st, err := env.gacha.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.SinceEpic)
	assert.Zero(t, st.SinceLegendary)
	assert.Zero(t, st.SinceMythical)
}

func TestOpenCrate_DuplicateCompensatesWithoutMutatingOwned(t *testing.T) {
	ctx := context.Background()

	// A one-rabbit catalog forces a duplicate pull.
	defs := []rabbit.Rabbit{{ID: "solo", Name: "Solo", Rarity: rabbit.Common, BaseCPS: 1}}
	crates := []crate.Crate{{
		ID: "plain", Name: "Plain", Cost: 100, Currency: crate.CurrencyCarrots,
		Rates: map[rabbit.Rarity]float64{
			rabbit.Common: 1, rabbit.Uncommon: 0, rabbit.Rare: 0,
			rabbit.Epic: 0, rabbit.Legendary: 0, rabbit.Mythical: 0,
		},
	}}
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0), RabbitDefs: defs, CrateDefs: crates})
	env.fund(t, 100, 0)
	require.NoError(t, env.rabbits.Add(ctx, rabbit.Owned{RabbitID: "solo", Level: 4, Experience: 12}))

	res, err := env.engine.OpenCrate(ctx, "plain")
	require.NoError(t, err)

	assert.True(t, res.IsDuplicate)
	assert.Equal(t, 50.0, res.Compensation, "common duplicate pays the configured amount")

	o, ok, err := env.rabbits.Get(ctx, "solo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, o.Level, "duplicate pull leaves the stored copy alone")
	assert.Equal(t, 12.0, o.Experience)

	// 100 spent, 50 compensated.
	assert.Equal(t, 50.0, env.balance(t).Carrots)

	n, err := env.rabbits.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "no second copy is added")
}

func TestOpenCrate_GoldenCurrency(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 10000, 25)

	res, err := env.engine.OpenCrate(ctx, "golden_crate")
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.CostPaid)

	w := env.balance(t)
	assert.Zero(t, w.GoldenCarrots)
	assert.Equal(t, 10000.0, w.Carrots, "carrots are not touched for a golden crate")
}

func TestOpenCrate_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{})

	_, err := env.engine.OpenCrate(ctx, "wooden_crate")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Rich in carrots, broke in golden.
	env.fund(t, 1e6, 0)
	_, err = env.engine.OpenCrate(ctx, "golden_crate")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	st, err := env.gacha.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.History, "refused opening records nothing")
}

func TestOpenCrate_UnknownCrate(t *testing.T) {
	env := newTestEngine(t, Options{})
	_, err := env.engine.OpenCrate(context.Background(), "diamond_crate")
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestOpenCrate_PublishesDropEvent(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 500, 0)

	var got []events.Event
	env.engine.Bus().Subscribe(func(ev events.Event) { got = append(got, ev) })

	_, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, events.TypeCrateDrop, got[0].Type)
}

func TestOpenCrate_HistoryRecordsNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEngine(t, Options{RNG: NewScriptedRNG(0.0)})
	env.fund(t, 1500, 0)

	first, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)
	second, err := env.engine.OpenCrate(ctx, "wooden_crate")
	require.NoError(t, err)

	st, err := env.gacha.Get(ctx)
	require.NoError(t, err)
	require.Len(t, st.History, 2)
	assert.Equal(t, second.Drop.ID, st.History[0].ID)
	assert.Equal(t, first.Drop.ID, st.History[1].ID)
}
