package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves the catalog and zone tables from a cached snapshot
type CatalogService struct {
	source CatalogSource
	cache  SnapshotCache
	stock  StockReserver
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source CatalogSource, cache SnapshotCache, stock StockReserver, ttl time.Duration) *CatalogService {
	return &CatalogService{
		source: source,
		cache:  cache,
		stock:  stock,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// ProductDetail is a product group with gallery images per variant
type ProductDetail struct {
	catalog.ProductGroup
	Galleries map[string][]string `json:"galleries"`
}

// SizeChoice is the size picker state for one variant
type SizeChoice struct {
	SubCode    string               `json:"sub_code"`
	Options    []catalog.SizeOption `json:"sizes"`
	Selected   *pricing.Size        `json:"selected,omitempty"`
	AddEnabled bool                 `json:"add_enabled"`
	UnitPrice  string               `json:"unit_price"`
}

// Snapshot returns the catalog snapshot, from cache when possible
func (cs *CatalogService) Snapshot(ctx context.Context) (*models.CatalogSnapshot, error) {
	snap, err := cs.cache.LoadSnapshot(ctx)
	if err != nil {
		util.CatalogCacheTotal.WithLabelValues("error").Inc()
		cs.logger.Warn("Catalog cache read failed, loading from store", zap.Error(err))
	}
	if snap != nil {
		util.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	util.CatalogCacheTotal.WithLabelValues("miss").Inc()
	return cs.Refresh(ctx)
}

// Refresh reloads the snapshot from the store and re-primes the cache
func (cs *CatalogService) Refresh(ctx context.Context) (*models.CatalogSnapshot, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Refresh")
	defer span.End()

	variants, err := cs.source.ListVariants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	inventory, err := cs.source.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	zones, err := cs.source.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery zones: %w", err)
	}

	snap := &models.CatalogSnapshot{
		Variants:  variants,
		Inventory: inventory,
		Zones:     zones,
		LoadedAt:  time.Now().UTC(),
	}
	if err := cs.cache.SaveSnapshot(ctx, snap, cs.ttl); err != nil {
		cs.logger.Warn("Failed to cache catalog snapshot", zap.Error(err))
	}

	cs.logger.Info("Catalog snapshot loaded",
		zap.Int("variants", len(variants)),
		zap.Int("inventory_rows", len(inventory)),
		zap.Int("zones", len(zones)))
	return snap, nil
}

// Invalidate drops the cached snapshot so the next read reloads stock levels
func (cs *CatalogService) Invalidate(ctx context.Context) {
	if err := cs.cache.InvalidateSnapshot(ctx); err != nil {
		cs.logger.Warn("Failed to invalidate catalog snapshot", zap.Error(err))
	}
}

// Search filters and groups the product grid
func (cs *CatalogService) Search(ctx context.Context, f catalog.Filter) ([]catalog.ProductGroup, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(snap.Variants, snap.Inventory, f), nil
}

// Categories lists the category filter options
func (cs *CatalogService) Categories(ctx context.Context) ([]string, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(snap.Variants), nil
}

// LatestDrops returns up to n new product groups
func (cs *CatalogService) LatestDrops(ctx context.Context, n int) ([]catalog.ProductGroup, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.LatestDrops(snap.Variants, n), nil
}

// Product returns one parent product with all its variants
func (cs *CatalogService) Product(ctx context.Context, parentCode string) (*ProductDetail, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range catalog.Group(snap.Variants) {
		if group.ParentCode != parentCode {
			continue
		}
		detail := &ProductDetail{ProductGroup: group, Galleries: make(map[string][]string, len(group.Variants))}
		for _, v := range group.Variants {
			detail.Galleries[v.SubCode] = catalog.Gallery(v.MainImageURL, v.GalleryImages)
		}
		return detail, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, parentCode)
}

// Variant returns a variant and the inventory it is priced against
func (cs *CatalogService) Variant(ctx context.Context, subCode string) (models.Variant, []models.InventoryRow, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return models.Variant{}, nil, err
	}
	for _, v := range snap.Variants {
		if v.SubCode == subCode {
			return v, snap.Inventory, nil
		}
	}
	return models.Variant{}, nil, fmt.Errorf("%w: %s", ErrVariantNotFound, subCode)
}

// SizeOptions maps the selected size and the inventory to the size picker state
func (cs *CatalogService) SizeOptions(ctx context.Context, subCode string, selected *pricing.Size) (*SizeChoice, error) {
	v, inventory, err := cs.Variant(ctx, subCode)
	if err != nil {
		return nil, err
	}
	return &SizeChoice{
		SubCode:    subCode,
		Options:    catalog.SizeOptions(inventory, subCode),
		Selected:   selected,
		AddEnabled: catalog.AddEnabled(selected, inventory, subCode),
		UnitPrice:  pricing.EffectivePrice(v).String(),
	}, nil
}

// Zones returns the delivery zone rows
func (cs *CatalogService) Zones(ctx context.Context) ([]models.Zone, error) {
	snap, err := cs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Zones, nil
}

// Regions lists the selectable delivery regions
func (cs *CatalogService) Regions(ctx context.Context) ([]string, error) {
	zones, err := cs.Zones(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.Regions(zones), nil
}

// Towns lists the towns of a region
func (cs *CatalogService) Towns(ctx context.Context, region string) ([]string, error) {
	zones, err := cs.Zones(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.Towns(zones, region), nil
}

// Areas lists the areas of a town
func (cs *CatalogService) Areas(ctx context.Context, region, town string) ([]string, error) {
	zones, err := cs.Zones(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.Areas(zones, region, town), nil
}

// SyncInventoryToRedis seeds the per-SKU stock counters used for order reservations
func (cs *CatalogService) SyncInventoryToRedis(ctx context.Context) error {
	cs.logger.Info("Starting inventory sync to Redis")

	inventory, err := cs.source.ListInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to get inventory: %w", err)
	}

	synced := 0
	for _, row := range inventory {
		if err := cs.stock.InitStock(ctx, row.SKUID, row.StockQty); err != nil {
			cs.logger.Error("Failed to init Redis stock",
				zap.String("sku_id", row.SKUID),
				zap.Error(err))
			continue
		}
		synced++
	}

	cs.logger.Info("Inventory sync completed", zap.Int("count", synced))
	return nil
}
