package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// EnsureSchema creates the mirror tables when they are missing
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection for readiness probes
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListVariants returns all product variants in sheet order
func (s *Store) ListVariants(ctx context.Context) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.SelectContext(ctx, &variants, `
		SELECT parent_code, sub_code, product_name, category, color_name, color_hex, description,
		       main_image_url, gallery_images, base_price, discount_price, discount_active, is_new
		FROM products ORDER BY row_no`)
	return variants, err
}

// ListInventory returns every (variant, size) stock row
func (s *Store) ListInventory(ctx context.Context) ([]models.InventoryRow, error) {
	var rows []models.InventoryRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT sub_code, size, stock_qty, sku_id FROM inventory ORDER BY row_no")
	return rows, err
}

// ListZones returns the delivery zones in sheet order
func (s *Store) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	err := s.db.SelectContext(ctx, &zones,
		"SELECT region, town_city, area_locality, delivery_price FROM delivery_zones ORDER BY row_no")
	return zones, err
}

// CommitStock deducts sold units from a SKU once its order is paid
func (s *Store) CommitStock(ctx context.Context, sku string, qty int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE inventory SET stock_qty = GREATEST(stock_qty - $1, 0), updated_at = NOW() WHERE sku_id = $2",
		qty, sku)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sku not found: %s", sku)
	}
	return nil
}
