package catalog

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variants() []models.Variant {
	return []models.Variant{
		{ParentCode: "TEE", SubCode: "TEE-BLK", Name: "Essential Tee", ColorName: "Black", Category: "Tops", BasePrice: decimal.NewFromInt(150), IsNew: true},
		{ParentCode: "CAP", SubCode: "CAP-RED", Name: "Dad Cap", ColorName: "Red", Category: "Accessories", BasePrice: decimal.NewFromInt(80)},
		{ParentCode: "TEE", SubCode: "TEE-WHT", Name: "Essential Tee", ColorName: "White", Category: "Tops", BasePrice: decimal.NewFromInt(150),
			DiscountActive: true, DiscountPrice: decimal.NewFromInt(90)},
		{ParentCode: "HD", SubCode: "HD-GRY", Name: "Heavy Hoodie", ColorName: "Grey", Category: "Outerwear", BasePrice: decimal.NewFromInt(420), IsNew: true},
	}
}

func inventory() []models.InventoryRow {
	return []models.InventoryRow{
		{SubCode: "TEE-BLK", Size: "M", StockQty: 10, SKUID: "TEE-BLK-M"},
		{SubCode: "TEE-BLK", Size: "L", StockQty: 2, SKUID: "TEE-BLK-L"},
		{SubCode: "TEE-WHT", Size: "M", StockQty: 0, SKUID: "TEE-WHT-M"},
		{SubCode: "HD-GRY", Size: "XL", StockQty: 4, SKUID: "HD-GRY-XL"},
	}
}

func parents(groups []ProductGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.ParentCode)
	}
	return out
}

func TestGroup(t *testing.T) {
	groups := Group(variants())

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"TEE", "CAP", "HD"}, parents(groups))
	assert.Len(t, groups[0].Variants, 2)
	assert.Equal(t, "TEE-BLK", groups[0].SubCode)
}

func TestCategories(t *testing.T) {
	vs := append(variants(), models.Variant{ParentCode: "X", SubCode: "X1"})
	assert.Equal(t, []string{"Tops", "Accessories", "Outerwear"}, Categories(vs))
}

func TestLatestDrops(t *testing.T) {
	assert.Equal(t, []string{"TEE", "HD"}, parents(LatestDrops(variants(), 4)))
	assert.Equal(t, []string{"TEE"}, parents(LatestDrops(variants(), 1)))
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter keeps source order", Filter{}, []string{"TEE", "CAP", "HD"}},
		{"query matches color", Filter{Query: "grey"}, []string{"HD"}},
		{"query matches category", Filter{Query: "ACCESS"}, []string{"CAP"}},
		{"category", Filter{Category: "Tops"}, []string{"TEE"}},
		{"under 100 uses discount price", Filter{PriceBand: PriceUnder100}, []string{"CAP", "TEE"}},
		{"100 to 300", Filter{PriceBand: Price100To300}, []string{"TEE"}},
		{"over 300", Filter{PriceBand: PriceOver300}, []string{"HD"}},
		{"in stock only", Filter{InStockOnly: true}, []string{"TEE", "HD"}},
		{"price high", Filter{Sort: SortPriceHigh}, []string{"HD", "TEE", "CAP"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parents(Search(variants(), inventory(), tt.filter)))
		})
	}
}

func TestSearchPriceLowOrdersVariants(t *testing.T) {
	groups := Search(variants(), inventory(), Filter{Sort: SortPriceLow})

	require.Equal(t, []string{"CAP", "TEE", "HD"}, parents(groups))
	// the discounted white tee sorts ahead of the black one
	assert.Equal(t, "TEE-WHT", groups[1].SubCode)
}

func TestSizeOptions(t *testing.T) {
	opts := SizeOptions(inventory(), "TEE-BLK")

	require.Len(t, opts, len(pricing.Sizes))
	assert.Equal(t, pricing.Size("S"), opts[0].Size)
	assert.False(t, opts[0].Available)

	m := opts[1]
	assert.Equal(t, "TEE-BLK-M", m.SKU)
	assert.True(t, m.Available)
	assert.False(t, m.LowStock)

	l := opts[2]
	assert.True(t, l.Available)
	assert.True(t, l.LowStock)
	assert.Equal(t, 2, l.Stock)
}

func TestAddEnabled(t *testing.T) {
	m, xl, s := pricing.Size("M"), pricing.Size("XL"), pricing.Size("S")

	assert.False(t, AddEnabled(nil, inventory(), "TEE-BLK"))
	assert.True(t, AddEnabled(&m, inventory(), "TEE-BLK"))
	assert.False(t, AddEnabled(&s, inventory(), "TEE-BLK"))
	assert.False(t, AddEnabled(&m, inventory(), "TEE-WHT"))
	assert.True(t, AddEnabled(&xl, inventory(), "HD-GRY"))
}
