package pricing

import (
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Method is how the order reaches the customer
type Method string

const (
	MethodDelivery Method = "delivery"
	MethodPickup   Method = "pickup"
)

// ParseMethod parses a delivery method; the empty string means delivery
func ParseMethod(s string) (Method, bool) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodDelivery:
		return MethodDelivery, true
	case MethodPickup:
		return MethodPickup, true
	}
	return "", false
}

// ZoneSelection is the region -> town -> area chosen at checkout. Empty fields are unselected.
type ZoneSelection struct {
	Region string `json:"region"`
	Town   string `json:"town"`
	Area   string `json:"area"`
}

// regionHeader shows up when the zone sheet's header row leaks into the data
const regionHeader = "Region"

// Regions lists distinct regions in source order
func Regions(zones []models.Zone) []string {
	return distinct(zones, func(z models.Zone) (string, bool) {
		return z.Region, z.Region != "" && z.Region != regionHeader
	})
}

// Towns lists distinct towns of a region in source order
func Towns(zones []models.Zone, region string) []string {
	if region == "" {
		return []string{}
	}
	return distinct(zones, func(z models.Zone) (string, bool) {
		return z.TownCity, z.Region == region
	})
}

// Areas lists distinct areas of a (region, town) pair in source order
func Areas(zones []models.Zone, region, town string) []string {
	if region == "" || town == "" {
		return []string{}
	}
	return distinct(zones, func(z models.Zone) (string, bool) {
		return z.AreaLocality, z.Region == region && z.TownCity == town
	})
}

func distinct(zones []models.Zone, pick func(models.Zone) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, z := range zones {
		v, ok := pick(z)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ResolveZone finds the zone row matching the exact (region, town, area) triple
func ResolveZone(sel ZoneSelection, zones []models.Zone) (models.Zone, bool) {
	if sel.Area == "" {
		return models.Zone{}, false
	}
	for _, z := range zones {
		if z.Region == sel.Region && z.TownCity == sel.Town && z.AreaLocality == sel.Area {
			return z, true
		}
	}
	return models.Zone{}, false
}

// ComputeDeliveryFee returns the fee for the selection. Pickup and unresolved selections cost 0.
func ComputeDeliveryFee(method Method, sel ZoneSelection, zones []models.Zone) decimal.Decimal {
	if method != MethodDelivery {
		return decimal.Zero
	}
	zone, ok := ResolveZone(sel, zones)
	if !ok {
		return decimal.Zero
	}
	return zone.DeliveryPrice
}

// GrandTotal is the subtotal plus the fee when delivering
func GrandTotal(cart Cart, method Method, fee decimal.Decimal) decimal.Decimal {
	total := Subtotal(cart)
	if method == MethodDelivery {
		total = total.Add(fee)
	}
	return total
}
