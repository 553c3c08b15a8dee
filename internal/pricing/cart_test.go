package pricing

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "want %s, got %s", want, got)
}

func testVariant() models.Variant {
	return models.Variant{
		ParentCode:   "TEE01",
		SubCode:      "TEE01-BLK",
		Name:         "Essential Tee",
		Category:     "Tops",
		ColorName:    "Black",
		MainImageURL: "https://img.example/tee.jpg",
		BasePrice:    money("150"),
	}
}

func TestEffectivePrice(t *testing.T) {
	v := testVariant()
	v.DiscountPrice = money("99.90")
	assertMoney(t, "150", EffectivePrice(v))

	v.DiscountActive = true
	assertMoney(t, "99.90", EffectivePrice(v))
	assert.False(t, EffectivePrice(v).IsNegative())
}

func TestAddToCartFreshCart(t *testing.T) {
	row := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 10, SKUID: "TEE01-BLK-M"}

	cart, status := AddToCart(nil, testVariant(), row)

	assert.Equal(t, StatusOK, status)
	require.Len(t, cart, 1)
	line := cart[0]
	assert.Equal(t, "TEE01-BLK-M", line.SKU)
	assert.Equal(t, "TEE01", line.ParentCode)
	assert.Equal(t, Size("M"), line.Size)
	assert.Equal(t, "Black", line.Color)
	assert.Equal(t, 1, line.Qty)
	assert.Equal(t, 10, line.MaxQty)
	assertMoney(t, "150", line.UnitPrice)
}

func TestAddToCartMergesSameSKU(t *testing.T) {
	row := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 2, SKUID: "TEE01-BLK-M"}

	cart, _ := AddToCart(nil, testVariant(), row)
	cart, status := AddToCart(cart, testVariant(), row)

	assert.Equal(t, StatusOK, status)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Qty)
}

func TestAddToCartCapacity(t *testing.T) {
	row := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 10, SKUID: "TEE01-BLK-M"}

	var cart Cart
	for i := 0; i < 10; i++ {
		var status Status
		cart, status = AddToCart(cart, testVariant(), row)
		require.Equal(t, StatusOK, status)
	}
	assert.Equal(t, 10, cart[0].Qty)

	cart, status := AddToCart(cart, testVariant(), row)
	assert.Equal(t, StatusCapacityExceeded, status)
	require.Len(t, cart, 1)
	assert.Equal(t, 10, cart[0].Qty)
}

func TestAddToCartKeepsSnapshot(t *testing.T) {
	row := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 3, SKUID: "TEE01-BLK-M"}
	cart, _ := AddToCart(nil, testVariant(), row)

	// later price drop and restock must not touch the existing line
	v := testVariant()
	v.DiscountActive = true
	v.DiscountPrice = money("80")
	row.StockQty = 50

	cart, _ = AddToCart(cart, v, row)
	assertMoney(t, "150", cart[0].UnitPrice)
	assert.Equal(t, 3, cart[0].MaxQty)
	assert.Equal(t, 2, cart[0].Qty)
}

func TestAddToCartDoesNotMutateInput(t *testing.T) {
	row := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 5, SKUID: "TEE01-BLK-M"}
	before, _ := AddToCart(nil, testVariant(), row)

	after, _ := AddToCart(before, testVariant(), row)

	assert.Equal(t, 1, before[0].Qty)
	assert.Equal(t, 2, after[0].Qty)
}

func TestAddToCartIncreasesSubtotalByUnitPrice(t *testing.T) {
	tee := models.InventoryRow{SubCode: "TEE01-BLK", Size: "M", StockQty: 5, SKUID: "TEE01-BLK-M"}
	hoodie := models.Variant{ParentCode: "HD01", SubCode: "HD01-GRY", Name: "Hoodie", BasePrice: money("300")}
	hoodieRow := models.InventoryRow{SubCode: "HD01-GRY", Size: "L", StockQty: 1, SKUID: "HD01-GRY-L"}

	cart, _ := AddToCart(nil, testVariant(), tee)
	before := Subtotal(cart)
	cart, _ = AddToCart(cart, hoodie, hoodieRow)

	require.Len(t, cart, 2)
	assertMoney(t, "300", Subtotal(cart).Sub(before))
}

func TestUpdateQuantity(t *testing.T) {
	cart := Cart{{SKU: "A", UnitPrice: money("10"), MaxQty: 3, Qty: 1}}

	cart = UpdateQuantity(cart, 0, 1)
	assert.Equal(t, 2, cart[0].Qty)
	cart = UpdateQuantity(cart, 0, 1)
	assert.Equal(t, 3, cart[0].Qty)

	// beyond max is ignored
	cart = UpdateQuantity(cart, 0, 1)
	assert.Equal(t, 3, cart[0].Qty)

	cart = UpdateQuantity(cart, 0, -2)
	assert.Equal(t, 1, cart[0].Qty)

	// below one is ignored
	cart = UpdateQuantity(cart, 0, -1)
	assert.Equal(t, 1, cart[0].Qty)

	// unknown index is ignored
	assert.Equal(t, cart, UpdateQuantity(cart, 4, 1))
	assert.Equal(t, cart, UpdateQuantity(cart, -1, 1))
}

func TestRemoveLine(t *testing.T) {
	cart := Cart{
		{SKU: "A", UnitPrice: money("120"), MaxQty: 5, Qty: 2},
		{SKU: "B", UnitPrice: money("300"), MaxQty: 5, Qty: 1},
		{SKU: "C", UnitPrice: money("45.50"), MaxQty: 5, Qty: 3},
	}
	before := Subtotal(cart)

	next := RemoveLine(cart, 1)

	require.Len(t, next, 2)
	assert.Equal(t, "A", next[0].SKU)
	assert.Equal(t, "C", next[1].SKU)
	assertMoney(t, "300", before.Sub(Subtotal(next)))
	assert.Len(t, cart, 3)

	assert.Len(t, RemoveLine(cart, 3), 3)
	assert.Empty(t, RemoveLine(Cart{{SKU: "A", Qty: 1, MaxQty: 1}}, 0))
}

func TestSubtotal(t *testing.T) {
	assertMoney(t, "0", Subtotal(nil))
	assertMoney(t, "0", Subtotal(Cart{}))

	cart := Cart{
		{SKU: "A", UnitPrice: money("120"), Qty: 2, MaxQty: 5},
		{SKU: "B", UnitPrice: money("300"), Qty: 1, MaxQty: 5},
	}
	assertMoney(t, "540", Subtotal(cart))
	assert.Equal(t, 3, ItemCount(cart))
}

func TestSubtotalIsExact(t *testing.T) {
	var cart Cart
	for i := 0; i < 30; i++ {
		cart = append(cart, Line{SKU: string(rune('A' + i)), UnitPrice: money("0.10"), Qty: 1, MaxQty: 1})
	}
	assertMoney(t, "3.00", Subtotal(cart))
}

func TestFindStock(t *testing.T) {
	rows := []models.InventoryRow{
		{SubCode: "X", Size: "S", StockQty: 1, SKUID: "X-S"},
		{SubCode: "X", Size: "M", StockQty: 0, SKUID: "X-M"},
	}
	row, ok := FindStock(rows, "X", "M")
	assert.True(t, ok)
	assert.Equal(t, "X-M", row.SKUID)

	_, ok = FindStock(rows, "X", "XL")
	assert.False(t, ok)
}
