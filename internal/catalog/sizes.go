package catalog

import (
	"storefront/internal/models"
	"storefront/internal/pricing"
)

// LowStockThreshold marks sizes with fewer units than this as running low
const LowStockThreshold = 5

// SizeOption is one size button on the product page
type SizeOption struct {
	Size      pricing.Size `json:"size"`
	SKU       string       `json:"sku_id,omitempty"`
	Stock     int          `json:"stock_qty"`
	Available bool         `json:"available"`
	LowStock  bool         `json:"low_stock"`
}

// SizeOptions lists every canonical size for the variant, available or not
func SizeOptions(inventory []models.InventoryRow, subCode string) []SizeOption {
	opts := make([]SizeOption, 0, len(pricing.Sizes))
	for _, size := range pricing.Sizes {
		opt := SizeOption{Size: size}
		if row, ok := pricing.FindStock(inventory, subCode, size); ok {
			opt.SKU = row.SKUID
			opt.Stock = row.StockQty
		}
		opt.Available = opt.Stock > 0
		opt.LowStock = opt.Available && opt.Stock < LowStockThreshold
		opts = append(opts, opt)
	}
	return opts
}

// AddEnabled reports whether "add to cart" is allowed for the selected size
func AddEnabled(selected *pricing.Size, inventory []models.InventoryRow, subCode string) bool {
	if selected == nil {
		return false
	}
	row, ok := pricing.FindStock(inventory, subCode, *selected)
	return ok && row.StockQty > 0
}
