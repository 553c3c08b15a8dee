package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/pricing"
	"storefront/internal/redisclient"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CartService applies cart engine operations and persists the result per session
type CartService struct {
	carts   CartStore
	catalog *CatalogService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts CartStore, catalogService *CatalogService, ttl time.Duration) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalogService,
		ttl:     ttl,
		logger:  util.GetLogger(),
	}
}

// Get loads the session cart. An unreadable slot is treated as an empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (pricing.Cart, error) {
	cart, err := s.carts.LoadCart(ctx, sessionID)
	if errors.Is(err, redisclient.ErrCorruptCart) {
		util.SessionLogger(sessionID).Warn("Discarding unreadable cart", zap.Error(err))
		util.CartStoreErrorsTotal.WithLabelValues("decode").Inc()
		return pricing.Cart{}, nil
	}
	if err != nil {
		util.CartStoreErrorsTotal.WithLabelValues("load").Inc()
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// Add puts one unit of the variant's size into the cart.
// The returned status is CAPACITY_EXCEEDED when the line already holds all available stock.
func (s *CartService) Add(ctx context.Context, sessionID, subCode string, size pricing.Size) (pricing.Cart, pricing.Status, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	v, inventory, err := s.catalog.Variant(ctx, subCode)
	if err != nil {
		return nil, "", err
	}
	if !catalog.AddEnabled(&size, inventory, subCode) {
		return nil, "", fmt.Errorf("%w: %s %s", ErrSizeUnavailable, subCode, size)
	}
	row, _ := pricing.FindStock(inventory, subCode, size)

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	next, status := pricing.AddToCart(cart, v, row)
	util.CartMutationsTotal.WithLabelValues("add", string(status)).Inc()
	if status != pricing.StatusOK {
		return next, status, nil
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, "", err
	}

	util.SessionLogger(sessionID).Debug("Added to cart",
		zap.String("sku_id", row.SKUID),
		zap.Int("items", pricing.ItemCount(next)))
	return next, status, nil
}

// UpdateQuantity changes the quantity of the line at index by delta
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, index, delta int) (pricing.Cart, error) {
	cart, err := s.line(ctx, sessionID, index)
	if err != nil {
		return nil, err
	}
	next := pricing.UpdateQuantity(cart, index, delta)
	util.CartMutationsTotal.WithLabelValues("update", string(pricing.StatusOK)).Inc()
	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove deletes the line at index
func (s *CartService) Remove(ctx context.Context, sessionID string, index int) (pricing.Cart, error) {
	cart, err := s.line(ctx, sessionID, index)
	if err != nil {
		return nil, err
	}
	next := pricing.RemoveLine(cart, index)
	util.CartMutationsTotal.WithLabelValues("remove", string(pricing.StatusOK)).Inc()
	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear drops the session cart
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.carts.DeleteCart(ctx, sessionID); err != nil {
		util.CartStoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("clear", string(pricing.StatusOK)).Inc()
	return nil
}

func (s *CartService) line(ctx context.Context, sessionID string, index int) (pricing.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart) {
		return nil, fmt.Errorf("%w: %d", ErrLineNotFound, index)
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, sessionID string, cart pricing.Cart) error {
	if err := s.carts.SaveCart(ctx, sessionID, cart, s.ttl); err != nil {
		util.CartStoreErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
