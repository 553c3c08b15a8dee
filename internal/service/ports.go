package service

import (
	"context"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

// CatalogSource supplies the read-only catalog and zone tables
type CatalogSource interface {
	ListVariants(ctx context.Context) ([]models.Variant, error)
	ListInventory(ctx context.Context) ([]models.InventoryRow, error)
	ListZones(ctx context.Context) ([]models.Zone, error)
}

// SnapshotCache keeps a loaded catalog snapshot between requests
type SnapshotCache interface {
	LoadSnapshot(ctx context.Context) (*models.CatalogSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *models.CatalogSnapshot, ttl time.Duration) error
	InvalidateSnapshot(ctx context.Context) error
}

// CartStore is the durable per-session cart slot
type CartStore interface {
	LoadCart(ctx context.Context, sessionID string) (pricing.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart pricing.Cart, ttl time.Duration) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// StockReserver holds units of a SKU while its order awaits payment
type StockReserver interface {
	InitStock(ctx context.Context, sku string, onHand int) error
	ReserveStock(ctx context.Context, sku string, qty int) (bool, error)
	ReleaseStock(ctx context.Context, sku string, qty int) error
	CommitStock(ctx context.Context, sku string, qty int) error
}

// IdempotencyGuard stops two submissions with the same key from running at once
type IdempotencyGuard interface {
	ClaimIdempotencyKey(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// OrderRepository persists submitted orders and their payments
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
	GetPendingOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
	GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	RecordPayment(ctx context.Context, payment *models.Payment) error
	CommitStock(ctx context.Context, sku string, qty int) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error
	PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error
	PublishPaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error
	PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error
}
