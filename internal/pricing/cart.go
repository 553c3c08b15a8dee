// Package pricing computes cart and checkout amounts for the storefront.
//
// Every function here is pure: it takes explicit inputs, returns new values and
// never touches storage or the network. Callers persist the returned cart.
package pricing

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Size is a garment size label
type Size string

// Sizes lists the sizes in display order
var Sizes = []Size{"S", "M", "L", "XL", "XXL", "3XL", "4XL"}

// Status is a reported, non-fatal outcome of an engine operation
type Status string

const (
	StatusOK               Status = "OK"
	StatusCapacityExceeded Status = "CAPACITY_EXCEEDED"
	StatusZoneUnresolved   Status = "ZONE_UNRESOLVED"
	StatusEmptyCart        Status = "EMPTY_CART"
)

// Line is one SKU in the cart. UnitPrice and MaxQty are frozen when the line is created.
type Line struct {
	SKU         string          `json:"sku"`
	ParentCode  string          `json:"parent_code"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image"`
	Color       string          `json:"color"`
	Size        Size            `json:"size"`
	UnitPrice   decimal.Decimal `json:"price"`
	MaxQty      int             `json:"maxQty"`
	Qty         int             `json:"qty"`
}

// Total is UnitPrice * Qty
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart is the ordered list of lines
type Cart []Line

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// EffectivePrice returns the discount price when the discount is active, else the base price
func EffectivePrice(v models.Variant) decimal.Decimal {
	if v.DiscountActive {
		return v.DiscountPrice
	}
	return v.BasePrice
}

// FindStock returns the inventory row for (subCode, size)
func FindStock(rows []models.InventoryRow, subCode string, size Size) (models.InventoryRow, bool) {
	for _, row := range rows {
		if row.SubCode == subCode && Size(row.Size) == size {
			return row, true
		}
	}
	return models.InventoryRow{}, false
}

// AddToCart adds one unit of the variant in the row's size.
// The row must belong to the variant and have stock; that is checked by the caller.
func AddToCart(cart Cart, v models.Variant, row models.InventoryRow) (Cart, Status) {
	for i, line := range cart {
		if line.SKU != row.SKUID {
			continue
		}
		if line.Qty >= line.MaxQty {
			return cart, StatusCapacityExceeded
		}
		next := cart.clone()
		next[i].Qty++
		return next, StatusOK
	}

	next := make(Cart, len(cart), len(cart)+1)
	copy(next, cart)
	next = append(next, Line{
		SKU:         row.SKUID,
		ParentCode:  v.ParentCode,
		ProductName: v.Name,
		Image:       v.MainImageURL,
		Color:       v.ColorName,
		Size:        Size(row.Size),
		UnitPrice:   EffectivePrice(v),
		MaxQty:      row.StockQty,
		Qty:         1,
	})
	return next, StatusOK
}

// UpdateQuantity applies delta to a line when the result stays within [1, MaxQty]
func UpdateQuantity(cart Cart, index, delta int) Cart {
	if index < 0 || index >= len(cart) {
		return cart
	}
	qty := cart[index].Qty + delta
	if qty < 1 || qty > cart[index].MaxQty {
		return cart
	}
	next := cart.clone()
	next[index].Qty = qty
	return next
}

// RemoveLine deletes the line at index
func RemoveLine(cart Cart, index int) Cart {
	if index < 0 || index >= len(cart) {
		return cart
	}
	next := make(Cart, 0, len(cart)-1)
	next = append(next, cart[:index]...)
	return append(next, cart[index+1:]...)
}

// Subtotal sums UnitPrice * Qty over all lines
func Subtotal(cart Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(line.Total())
	}
	return total
}

// ItemCount is the number of units in the cart
func ItemCount(cart Cart) int {
	n := 0
	for _, line := range cart {
		n += line.Qty
	}
	return n
}
