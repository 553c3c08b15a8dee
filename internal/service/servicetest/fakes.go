// Package servicetest provides in-memory collaborators for exercising the storefront services.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Source serves a fixed catalog and counts product loads
type Source struct {
	variants  []models.Variant
	inventory []models.InventoryRow
	zones     []models.Zone
	Calls     int
}

func (f *Source) ListVariants(ctx context.Context) ([]models.Variant, error) {
	f.Calls++
	return f.variants, nil
}

func (f *Source) ListInventory(ctx context.Context) ([]models.InventoryRow, error) {
	return f.inventory, nil
}

func (f *Source) ListZones(ctx context.Context) ([]models.Zone, error) {
	return f.zones, nil
}

// Fixture is a two-variant tee catalog with Accra and Kumasi zones.
// TEE-BLK-M has 2 units, TEE-BLK-L is sold out and TEE-WHT-S has 3.
func Fixture() *Source {
	return &Source{
		variants: []models.Variant{
			{
				ParentCode: "TEE", SubCode: "TEE-BLK", Name: "Essential Tee", Category: "Tops",
				ColorName: "Black", MainImageURL: "https://res.cloudinary.com/demo/image/upload/v1/tee.jpg",
				GalleryImages: "https://example.com/a.jpg, https://example.com/b.jpg",
				BasePrice:     money("120"), DiscountPrice: money("100"), DiscountActive: true, IsNew: true,
			},
			{
				ParentCode: "TEE", SubCode: "TEE-WHT", Name: "Essential Tee", Category: "Tops",
				ColorName: "White", BasePrice: money("120"),
			},
		},
		inventory: []models.InventoryRow{
			{SubCode: "TEE-BLK", Size: "M", StockQty: 2, SKUID: "TEE-BLK-M"},
			{SubCode: "TEE-BLK", Size: "L", StockQty: 0, SKUID: "TEE-BLK-L"},
			{SubCode: "TEE-WHT", Size: "S", StockQty: 3, SKUID: "TEE-WHT-S"},
		},
		zones: []models.Zone{
			{Region: "Region", TownCity: "Town_City", AreaLocality: "Area_Locality"},
			{Region: "Greater Accra", TownCity: "Accra", AreaLocality: "Osu", DeliveryPrice: money("20")},
			{Region: "Ashanti", TownCity: "Kumasi", AreaLocality: "Adum", DeliveryPrice: money("35")},
		},
	}
}

// Orders is an in-memory order repository
type Orders struct {
	mu        sync.Mutex
	nextID    int64
	orders    map[int64]*models.Order
	items     map[int64][]models.OrderItem
	Payments  []models.Payment
	Committed map[string]int
	Processed map[string]string
}

func NewOrders() *Orders {
	return &Orders{
		orders:    make(map[int64]*models.Order),
		items:     make(map[int64][]models.OrderItem),
		Committed: make(map[string]int),
		Processed: make(map[string]string),
	}
}

func (f *Orders) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	order.ID = f.nextID
	order.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	order.UpdatedAt = order.CreatedAt
	stored := *order
	f.orders[order.ID] = &stored
	for _, item := range items {
		item.OrderID = order.ID
		f.items[order.ID] = append(f.items[order.ID], item)
	}
	return nil
}

func (f *Orders) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.Reference == reference {
			copied := *o
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", reference, store.ErrNotFound)
}

func (f *Orders) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.IdempotencyKey == key {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *Orders) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.Email == email {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *Orders) GetPendingOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.SessionID == sessionID && o.Status == models.OrderStatusPending {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *Orders) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *Orders) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *Orders) RecordPayment(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment.ID = int64(len(f.Payments) + 1)
	f.Payments = append(f.Payments, *payment)
	if o, ok := f.orders[payment.OrderID]; ok {
		o.PaymentReference = payment.Reference
	}
	return nil
}

func (f *Orders) CommitStock(ctx context.Context, sku string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Committed[sku] += qty
	return nil
}

func (f *Orders) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Processed[eventID]
	return ok, nil
}

func (f *Orders) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Processed[eventID] = eventType
	return nil
}

// Count returns the number of stored orders
func (f *Orders) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// Status returns the stored status of an order
func (f *Orders) Status(t *testing.T, reference string) string {
	t.Helper()
	o, err := f.GetOrderByReference(context.Background(), reference)
	require.NoError(t, err)
	return o.Status
}

// Publisher records published events
type Publisher struct {
	mu        sync.Mutex
	Placed    []*models.OrderPlacedEvent
	Confirmed []*models.OrderConfirmedEvent
	Cancelled []*models.OrderCancelledEvent
	Succeeded []*models.PaymentSucceededEvent
	Failed    []*models.PaymentFailedEvent
}

func (f *Publisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Placed = append(f.Placed, event)
	return nil
}

func (f *Publisher) PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Confirmed = append(f.Confirmed, event)
	return nil
}

func (f *Publisher) PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cancelled = append(f.Cancelled, event)
	return nil
}

func (f *Publisher) PublishPaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Succeeded = append(f.Succeeded, event)
	return nil
}

func (f *Publisher) PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failed = append(f.Failed, event)
	return nil
}

