package redisclient

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/reserve_stock.lua
var reserveStockScript string

//go:embed scripts/release_stock.lua
var releaseStockScript string

//go:embed scripts/commit_stock.lua
var commitStockScript string

//go:embed scripts/sync_stock.lua
var syncStockScript string

const snapshotKey = "catalog:snapshot"

var (
	// ErrCorruptCart is returned when a stored cart cannot be decoded
	ErrCorruptCart = errors.New("stored cart is unreadable")
	// ErrStockUntracked is returned when a SKU has no stock counter
	ErrStockUntracked = errors.New("sku stock not tracked")
)

type Client struct {
	rdb           *redis.Client
	reserveScript *redis.Script
	releaseScript *redis.Script
	commitScript  *redis.Script
	syncScript    *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return Wrap(rdb), nil
}

// Wrap builds a Client around an existing connection
func Wrap(rdb *redis.Client) *Client {
	return &Client{
		rdb:           rdb,
		reserveScript: redis.NewScript(reserveStockScript),
		releaseScript: redis.NewScript(releaseStockScript),
		commitScript:  redis.NewScript(commitStockScript),
		syncScript:    redis.NewScript(syncStockScript),
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection for readiness probes
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func stockKey(sku string) string {
	return fmt.Sprintf("stock:%s", sku)
}

// LoadCart reads the session's cart. A missing slot is an empty cart.
func (c *Client) LoadCart(ctx context.Context, sessionID string) (pricing.Cart, error) {
	raw, err := c.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pricing.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart pricing.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	if cart == nil {
		cart = pricing.Cart{}
	}
	return cart, nil
}

// SaveCart overwrites the session's cart and refreshes its TTL
func (c *Client) SaveCart(ctx context.Context, sessionID string, cart pricing.Cart, ttl time.Duration) error {
	if cart == nil {
		cart = pricing.Cart{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := c.rdb.Set(ctx, cartKey(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// DeleteCart drops the session's cart slot
func (c *Client) DeleteCart(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartKey(sessionID)).Err()
}

// LoadSnapshot returns the cached catalog snapshot, nil on a cache miss
func (c *Client) LoadSnapshot(ctx context.Context) (*models.CatalogSnapshot, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.CatalogSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot caches the catalog snapshot
func (c *Client) SaveSnapshot(ctx context.Context, snap *models.CatalogSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	return c.rdb.Set(ctx, snapshotKey, raw, ttl).Err()
}

// InvalidateSnapshot forces the next read to hit the store
func (c *Client) InvalidateSnapshot(ctx context.Context) error {
	return c.rdb.Del(ctx, snapshotKey).Err()
}

// InitStock seeds a SKU from its on-hand count, keeping units held by pending orders out of available
func (c *Client) InitStock(ctx context.Context, sku string, onHand int) error {
	if err := c.syncScript.Run(ctx, c.rdb, []string{stockKey(sku)}, onHand).Err(); err != nil {
		return fmt.Errorf("sync stock script failed: %w", err)
	}
	return nil
}

// GetStock retrieves current stock counters
func (c *Client) GetStock(ctx context.Context, sku string) (available, reserved int, err error) {
	result, err := c.rdb.HGetAll(ctx, stockKey(sku)).Result()
	if err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrStockUntracked, sku)
	}

	available, _ = strconv.Atoi(result["available"])
	reserved, _ = strconv.Atoi(result["reserved"])
	return available, reserved, nil
}

// ReserveStock atomically moves qty units from available to reserved.
// It returns false when not enough units are available.
func (c *Client) ReserveStock(ctx context.Context, sku string, qty int) (bool, error) {
	result, err := c.reserveScript.Run(ctx, c.rdb, []string{stockKey(sku)}, qty).Int64()
	if err != nil {
		return false, fmt.Errorf("reserve stock script failed: %w", err)
	}

	switch result {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrStockUntracked, sku)
	}
}

// ReleaseStock returns reserved units to available (compensation)
func (c *Client) ReleaseStock(ctx context.Context, sku string, qty int) error {
	if err := c.releaseScript.Run(ctx, c.rdb, []string{stockKey(sku)}, qty).Err(); err != nil {
		return fmt.Errorf("release stock script failed: %w", err)
	}
	return nil
}

// CommitStock drops reserved units once the order is paid
func (c *Client) CommitStock(ctx context.Context, sku string, qty int) error {
	if err := c.commitScript.Run(ctx, c.rdb, []string{stockKey(sku)}, qty).Err(); err != nil {
		return fmt.Errorf("commit stock script failed: %w", err)
	}
	return nil
}

// ClaimIdempotencyKey stores key if absent; false means it was already claimed
func (c *Client) ClaimIdempotencyKey(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Result()
}

// ReleaseIdempotencyKey frees a key after a failed attempt so the client may retry
func (c *Client) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("idempotency:%s", key)).Err()
}
