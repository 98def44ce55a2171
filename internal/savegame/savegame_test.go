package savegame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/prestige"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
)

func freshStores() Stores {
	return Stores{
		Wallet:    wallet.NewMemoryRepo(),
		Buildings: building.NewMemoryRepo(),
		Upgrades:  upgrade.NewMemoryRepo(),
		Rabbits:   rabbit.NewMemoryRepo(),
		Gacha:     crate.NewMemoryRepo(),
		Prestige:  prestige.NewMemoryRepo(),
	}
}

func seedStores(t *testing.T, s Stores) {
	t.Helper()
	ctx := context.Background()

	w := wallet.Wallet{
		Carrots: 1234, GoldenCarrots: 5, LifetimeCarrots: 99999,
		TotalClicks: 42, LastSeenAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Wallet.Update(ctx, w))

	_, err := s.Buildings.Increment(ctx, "carrot_silo")
	require.NoError(t, err)
	_, err = s.Buildings.Increment(ctx, "carrot_silo")
	require.NoError(t, err)

	require.NoError(t, s.Upgrades.MarkOwned(ctx, "iron_paw"))
	require.NoError(t, s.Rabbits.Replace(ctx, []rabbit.Owned{
		{RabbitID: "thumper", Level: 2, ObtainedAt: w.LastSeenAt},
		{RabbitID: "aurora", Level: 1, ObtainedAt: w.LastSeenAt},
	}, []string{"aurora"}))

	require.NoError(t, s.Gacha.Update(ctx, crate.State{
		SinceEpic: 3, SinceLegendary: 7, SinceMythical: 11,
		History: []crate.Drop{{ID: "d1", CrateID: "wooden_crate", RabbitID: "thumper",
			Rarity: rabbit.Common, At: w.LastSeenAt}},
	}))
	require.NoError(t, s.Prestige.Update(ctx, prestige.State{BonusPoints: 4, Count: 2}))
}

func TestCaptureEncodeDecodeRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := freshStores()
	seedStores(t, src)

	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	blob, err := Capture(ctx, src, now)
	require.NoError(t, err)
	assert.Equal(t, Version, blob.Version)
	assert.Equal(t, now, blob.CreatedAt)

	encoded, err := Encode(blob)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	dst := freshStores()
	require.NoError(t, Restore(ctx, dst, decoded))

	w, err := dst.Wallet.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.0, w.Carrots)
	assert.Equal(t, int64(42), w.TotalClicks)
	assert.True(t, w.LastSeenAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	n, err := dst.Buildings.Count(ctx, "carrot_silo")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	owned, err := dst.Upgrades.Owned(ctx, "iron_paw")
	require.NoError(t, err)
	assert.True(t, owned)

	o, ok, err := dst.Rabbits.Get(ctx, "thumper")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, o.Level)

	team, err := dst.Rabbits.Team(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aurora"}, team)

	st, err := dst.Gacha.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.SinceEpic)
	assert.Equal(t, 11, st.SinceMythical)
	require.Len(t, st.History, 1)
	assert.Equal(t, "d1", st.History[0].ID)

	ps, err := dst.Prestige.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), ps.BonusPoints)
}

func TestValidate_RejectsFutureVersion(t *testing.T) {
	b := Blob{Version: Version + 1}
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestValidate_RejectsBadBlobs(t *testing.T) {
	cases := map[string]Blob{
		"zero version":     {Version: 0},
		"unknown building": {Version: Version, Buildings: []BuildingEntry{{ID: "moon_base", Count: 1}}},
		"negative count":   {Version: Version, Buildings: []BuildingEntry{{ID: "carrot_silo", Count: -1}}},
		"unknown upgrade":  {Version: Version, Upgrades: []string{"turbo"}},
		"unknown rabbit":   {Version: Version, Rabbits: []rabbit.Owned{{RabbitID: "gerald", Level: 1}}},
		"duplicate rabbit": {Version: Version, Rabbits: []rabbit.Owned{
			{RabbitID: "thumper", Level: 1}, {RabbitID: "thumper", Level: 2}}},
		"zero level":       {Version: Version, Rabbits: []rabbit.Owned{{RabbitID: "thumper"}}},
		"unowned teammate": {Version: Version, Team: []string{"thumper"}},
		"negative pity":    {Version: Version, Pity: PityDoc{SinceEpic: -1}},
		"negative balance": {Version: Version, Wallet: wallet.Wallet{Carrots: -5}},
		"negative points":  {Version: Version, Prestige: prestige.State{BonusPoints: -1}},
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, b.Validate())
		})
	}
}

func TestRestore_InvalidBlobLeavesStoresUntouched(t *testing.T) {
	ctx := context.Background()
	dst := freshStores()
	seedStores(t, dst)

	bad := Blob{Version: Version + 1}
	require.Error(t, Restore(ctx, dst, bad))

	w, err := dst.Wallet.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.0, w.Carrots)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode("not base64 at all!!!")
	assert.ErrorContains(t, err, "malformed save")

	// Valid base64, not gzip.
	_, err = Decode("aGVsbG8gd29ybGQ=")
	assert.ErrorContains(t, err, "malformed save")
}

func TestMigrate_LiftsVersionOne(t *testing.T) {
	ctx := context.Background()
	b := Blob{
		Version: 1,
		Wallet:  wallet.Wallet{Carrots: 10, LifetimeCarrots: 10},
	}
	require.NoError(t, b.Validate(), "version 1 is still loadable")

	dst := freshStores()
	require.NoError(t, Restore(ctx, dst, b))

	ps, err := dst.Prestige.Get(ctx)
	require.NoError(t, err)
	assert.Zero(t, ps.BonusPoints, "pre-prestige saves start with zero points")
}

func TestFileRepo_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	_, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no save yet")

	src := freshStores()
	seedStores(t, src)
	blob, err := Capture(ctx, src, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, blob))

	got, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blob.Wallet.Carrots, got.Wallet.Carrots)
	assert.Len(t, got.Buildings, 1)
	assert.Equal(t, 2, got.Buildings[0].Count)
}
