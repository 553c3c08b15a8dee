package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutScenario(t *testing.T) {
	cart := Cart{
		{SKU: "A", UnitPrice: money("120"), Qty: 2, MaxQty: 5},
		{SKU: "B", UnitPrice: money("300"), Qty: 1, MaxQty: 5},
	}
	osu := ZoneSelection{Region: "Greater Accra", Town: "Accra", Area: "Osu"}

	q := Checkout(cart, MethodDelivery, osu, testZones())
	assert.Equal(t, StatusOK, q.Status)
	assert.True(t, q.Ready())
	assert.Equal(t, 3, q.Items)
	require.NotNil(t, q.Zone)
	assert.Equal(t, "Osu", q.Zone.AreaLocality)
	assertMoney(t, "540", q.Subtotal)
	assertMoney(t, "20", q.DeliveryFee)
	assertMoney(t, "560", q.Total)

	// switching to pickup keeps the lines and drops the fee
	q = Checkout(cart, MethodPickup, osu, testZones())
	assert.True(t, q.Ready())
	assert.Nil(t, q.Zone)
	assertMoney(t, "0", q.DeliveryFee)
	assertMoney(t, "540", q.Total)
	assert.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Qty)
}

func TestCheckoutZoneUnresolved(t *testing.T) {
	cart := Cart{{SKU: "A", UnitPrice: money("120"), Qty: 1, MaxQty: 5}}

	q := Checkout(cart, MethodDelivery, ZoneSelection{Region: "Greater Accra", Town: "Accra"}, testZones())

	assert.Equal(t, StatusZoneUnresolved, q.Status)
	assert.False(t, q.Ready())
	assertMoney(t, "0", q.DeliveryFee)
	assertMoney(t, "120", q.Total)
}

func TestCheckoutEmptyCart(t *testing.T) {
	q := Checkout(Cart{}, MethodDelivery, ZoneSelection{Region: "Greater Accra", Town: "Accra", Area: "Osu"}, testZones())

	assert.Equal(t, StatusEmptyCart, q.Status)
	assert.False(t, q.Ready())
	assert.Nil(t, q.Zone)
	assertMoney(t, "0", q.Total)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(56000), MinorUnits(money("560")))
	assert.Equal(t, int64(12345), MinorUnits(money("123.45")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}
