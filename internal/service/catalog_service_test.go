package service

import (
	"context"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsCached(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.catalog.Snapshot(ctx)
	require.NoError(t, err)
	second, err := h.catalog.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, h.source.Calls)
	assert.Len(t, second.Variants, len(first.Variants))
	assert.True(t, h.mr.Exists("catalog:snapshot"))
}

func TestSnapshotFallsBackWhenCacheDown(t *testing.T) {
	h := newHarness(t)
	h.mr.Close()

	snap, err := h.catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Variants, 2)
	assert.Equal(t, 1, h.source.Calls)
}

func TestCatalogQueries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	groups, err := h.catalog.Search(ctx, catalog.Filter{Query: "tee"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Variants, 2)

	categories, err := h.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tops"}, categories)

	latest, err := h.catalog.LatestDrops(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, latest, 1)

	detail, err := h.catalog.Product(ctx, "TEE")
	require.NoError(t, err)
	assert.Len(t, detail.Galleries["TEE-BLK"], 3)

	_, err = h.catalog.Product(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSizeOptions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m := pricing.Size("M")
	choice, err := h.catalog.SizeOptions(ctx, "TEE-BLK", &m)
	require.NoError(t, err)
	assert.True(t, choice.AddEnabled)
	assert.Equal(t, "100", choice.UnitPrice)
	assert.Len(t, choice.Options, len(pricing.Sizes))

	l := pricing.Size("L")
	choice, err = h.catalog.SizeOptions(ctx, "TEE-BLK", &l)
	require.NoError(t, err)
	assert.False(t, choice.AddEnabled)

	choice, err = h.catalog.SizeOptions(ctx, "TEE-BLK", nil)
	require.NoError(t, err)
	assert.False(t, choice.AddEnabled)

	_, err = h.catalog.SizeOptions(ctx, "NOPE", nil)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestZoneLookups(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	regions, err := h.catalog.Regions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Greater Accra", "Ashanti"}, regions)

	towns, err := h.catalog.Towns(ctx, "Ashanti")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kumasi"}, towns)

	areas, err := h.catalog.Areas(ctx, "Greater Accra", "Accra")
	require.NoError(t, err)
	assert.Equal(t, []string{"Osu"}, areas)
}

func TestSyncInventoryToRedis(t *testing.T) {
	h := newHarness(t)

	available, reserved := h.stock(t, "TEE-BLK-M")
	assert.Equal(t, 2, available)
	assert.Equal(t, 0, reserved)

	available, _ = h.stock(t, "TEE-BLK-L")
	assert.Equal(t, 0, available)
}

func TestSyncInventoryKeepsPendingReservations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, _, err := h.carts.Add(ctx, "sess-a", "TEE-BLK", "M")
		require.NoError(t, err)
	}
	_, err := h.checkout.PlaceOrder(ctx, validRequest("sess-a"))
	require.NoError(t, err)

	require.NoError(t, h.catalog.SyncInventoryToRedis(ctx))

	available, reserved := h.stock(t, "TEE-BLK-M")
	assert.Equal(t, 0, available)
	assert.Equal(t, 2, reserved)

	_, _, err = h.carts.Add(ctx, "sess-b", "TEE-BLK", "M")
	require.NoError(t, err)
	_, err = h.checkout.PlaceOrder(ctx, validRequest("sess-b"))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
