package pricing

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Quote carries the monetary fields of a checkout snapshot
type Quote struct {
	Method      Method          `json:"delivery_method"`
	Zone        *models.Zone    `json:"zone,omitempty"`
	Items       int             `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"status"`
}

// Ready reports whether the quote may be submitted for payment
func (q Quote) Ready() bool {
	return q.Status == StatusOK
}

// Checkout prices a cart for the given delivery choice.
// An empty cart is rejected before any totals are computed.
func Checkout(cart Cart, method Method, sel ZoneSelection, zones []models.Zone) Quote {
	q := Quote{
		Method:      method,
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
		Total:       decimal.Zero,
		Status:      StatusOK,
	}
	if len(cart) == 0 {
		q.Status = StatusEmptyCart
		return q
	}

	q.Items = ItemCount(cart)
	q.Subtotal = Subtotal(cart)
	if method == MethodDelivery {
		zone, ok := ResolveZone(sel, zones)
		if ok {
			q.Zone = &zone
		} else {
			q.Status = StatusZoneUnresolved
		}
	}
	q.DeliveryFee = ComputeDeliveryFee(method, sel, zones)
	q.Total = GrandTotal(cart, method, q.DeliveryFee)
	return q
}

// MinorUnits converts an amount to pesewas for the payment provider
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}
