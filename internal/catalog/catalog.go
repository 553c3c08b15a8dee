package catalog

import (
	"sort"
	"strings"

	"storefront/internal/models"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// ProductGroup is a parent product with its color variants
type ProductGroup struct {
	models.Variant
	Variants []models.Variant `json:"variants"`
}

// Price bands accepted by Filter.PriceBand
const (
	PriceAll      = "all"
	PriceUnder100 = "under100"
	Price100To300 = "100to300"
	PriceOver300  = "over300"
)

// Sort orders accepted by Filter.Sort
const (
	SortNewest    = "newest"
	SortPriceLow  = "priceLow"
	SortPriceHigh = "priceHigh"
)

// Filter narrows the product grid
type Filter struct {
	Query       string
	Category    string
	PriceBand   string
	InStockOnly bool
	Sort        string
}

var (
	hundred      = decimal.NewFromInt(100)
	threeHundred = decimal.NewFromInt(300)
)

// Group collects variants under their parent code, keeping first-seen order
func Group(variants []models.Variant) []ProductGroup {
	index := make(map[string]int)
	groups := []ProductGroup{}
	for _, v := range variants {
		i, ok := index[v.ParentCode]
		if !ok {
			i = len(groups)
			index[v.ParentCode] = i
			groups = append(groups, ProductGroup{Variant: v})
		}
		groups[i].Variants = append(groups[i].Variants, v)
	}
	return groups
}

// Categories lists distinct non-empty categories in source order
func Categories(variants []models.Variant) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, v := range variants {
		if v.Category == "" {
			continue
		}
		if _, ok := seen[v.Category]; ok {
			continue
		}
		seen[v.Category] = struct{}{}
		out = append(out, v.Category)
	}
	return out
}

// LatestDrops returns up to n groups built from variants flagged as new
func LatestDrops(variants []models.Variant, n int) []ProductGroup {
	var fresh []models.Variant
	for _, v := range variants {
		if v.IsNew {
			fresh = append(fresh, v)
		}
	}
	groups := Group(fresh)
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// InStock reports whether any size of the variant has stock
func InStock(inventory []models.InventoryRow, subCode string) bool {
	for _, row := range inventory {
		if row.SubCode == subCode && row.StockQty > 0 {
			return true
		}
	}
	return false
}

// Search applies the filter and sort to the variants and groups the result
func Search(variants []models.Variant, inventory []models.InventoryRow, f Filter) []ProductGroup {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	results := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if q != "" && !matchesQuery(v, q) {
			continue
		}
		if f.Category != "" && f.Category != "all" && v.Category != f.Category {
			continue
		}
		if !inPriceBand(pricing.EffectivePrice(v), f.PriceBand) {
			continue
		}
		if f.InStockOnly && !InStock(inventory, v.SubCode) {
			continue
		}
		results = append(results, v)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(results, func(i, j int) bool {
			return pricing.EffectivePrice(results[i]).LessThan(pricing.EffectivePrice(results[j]))
		})
	case SortPriceHigh:
		sort.SliceStable(results, func(i, j int) bool {
			return pricing.EffectivePrice(results[i]).GreaterThan(pricing.EffectivePrice(results[j]))
		})
	}

	return Group(results)
}

func matchesQuery(v models.Variant, q string) bool {
	return strings.Contains(strings.ToLower(v.Name), q) ||
		strings.Contains(strings.ToLower(v.ColorName), q) ||
		(v.Category != "" && strings.Contains(strings.ToLower(v.Category), q))
}

func inPriceBand(price decimal.Decimal, band string) bool {
	switch band {
	case PriceUnder100:
		return price.LessThan(hundred)
	case Price100To300:
		return price.GreaterThanOrEqual(hundred) && price.LessThanOrEqual(threeHundred)
	case PriceOver300:
		return price.GreaterThan(threeHundred)
	}
	return true
}
