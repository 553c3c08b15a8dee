package pricing

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func testZones() []models.Zone {
	return []models.Zone{
		{Region: "Region", TownCity: "Town_City", AreaLocality: "Area_Locality"},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Osu", DeliveryPrice: money("20")},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Labone", DeliveryPrice: money("25")},
		{Region: "Ashanti", TownCity: "Kumasi", AreaLocality: "Adum", DeliveryPrice: money("45")},
		{Region: "Greater Accra", TownCity: "Tema", AreaLocality: "Community 1", DeliveryPrice: money("30")},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Osu", DeliveryPrice: money("99")},
		{Region: "", TownCity: "Nowhere", AreaLocality: "Blank"},
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"delivery", MethodDelivery, true},
		{"", MethodDelivery, true},
		{" Pickup ", MethodPickup, true},
		{"drone", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMethod(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestZoneOptions(t *testing.T) {
	zones := testZones()

	assert.Equal(t, []string{"Greater Accra", "Ashanti"}, Regions(zones))
	assert.Equal(t, []string{"Accra", "Tema"}, Towns(zones, "Greater Accra"))
	assert.Equal(t, []string{"Osu", "Labone"}, Areas(zones, "Greater Accra", "Accra"))

	assert.Empty(t, Towns(zones, ""))
	assert.Empty(t, Towns(zones, "Volta"))
	assert.Empty(t, Areas(zones, "Greater Accra", ""))
	assert.Empty(t, Areas(zones, "Ashanti", "Accra"))
}

func TestComputeDeliveryFee(t *testing.T) {
	zones := testZones()
	osu := ZoneSelection{Region: "Greater Accra", Town: "Accra", Area: "Osu"}

	assertMoney(t, "20", ComputeDeliveryFee(MethodDelivery, osu, zones))
	assertMoney(t, "45", ComputeDeliveryFee(MethodDelivery, ZoneSelection{Region: "Ashanti", Town: "Kumasi", Area: "Adum"}, zones))

	assertMoney(t, "0", ComputeDeliveryFee(MethodPickup, osu, zones))
	assertMoney(t, "0", ComputeDeliveryFee(MethodDelivery, ZoneSelection{Region: "Greater Accra", Town: "Accra"}, zones))
	assertMoney(t, "0", ComputeDeliveryFee(MethodDelivery, ZoneSelection{}, zones))
	assertMoney(t, "0", ComputeDeliveryFee(MethodDelivery, ZoneSelection{Region: "Ashanti", Town: "Accra", Area: "Osu"}, zones))
}

func TestComputeDeliveryFeeIgnoresRowOrder(t *testing.T) {
	zones := []models.Zone{
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Labone", DeliveryPrice: money("25")},
		{Region: "Greater Accra", TownCity: "Tema", AreaLocality: "Osu", DeliveryPrice: money("70")},
		{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Osu", DeliveryPrice: money("20")},
	}
	osu := ZoneSelection{Region: "Greater Accra", Town: "Accra", Area: "Osu"}
	assertMoney(t, "20", ComputeDeliveryFee(MethodDelivery, osu, zones))

	reversed := []models.Zone{zones[2], zones[1], zones[0]}
	assertMoney(t, "20", ComputeDeliveryFee(MethodDelivery, osu, reversed))
}

func TestGrandTotal(t *testing.T) {
	cart := Cart{
		{SKU: "A", UnitPrice: money("120"), Qty: 2, MaxQty: 5},
		{SKU: "B", UnitPrice: money("300"), Qty: 1, MaxQty: 5},
	}
	assertMoney(t, "560", GrandTotal(cart, MethodDelivery, money("20")))
	assertMoney(t, "540", GrandTotal(cart, MethodPickup, money("20")))
	assertMoney(t, "0", GrandTotal(nil, MethodPickup, money("20")))
}
