package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

const orderColumns = `id, reference, session_id, customer_name, email, phone, delivery_method, location,
	region, town_city, area_locality, subtotal, delivery_fee, grand_total, status, payment_reference,
	idempotency_key, created_at, updated_at`

// CreateOrder stores an order and its items in one transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, order, `
		INSERT INTO orders (reference, session_id, customer_name, email, phone, delivery_method, location,
			region, town_city, area_locality, subtotal, delivery_fee, grand_total, status, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+orderColumns,
		order.Reference, order.SessionID, order.CustomerName, order.Email, order.Phone, order.DeliveryMethod,
		order.Location, order.Region, order.TownCity, order.AreaLocality, order.Subtotal, order.DeliveryFee,
		order.GrandTotal, order.Status, order.IdempotencyKey)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO order_items (order_id, sku_id, item_name, size, qty, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			items[i].OrderID, items[i].SKU, items[i].ItemName, items[i].Size, items[i].Qty, items[i].UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", items[i].SKU, err)
		}
	}

	return tx.Commit()
}

// GetOrderByReference retrieves an order by its public reference
func (s *Store) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE reference = $1", reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", reference, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByIdempotencyKey retrieves an order by idempotency key, nil when absent
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE idempotency_key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPendingOrdersBySession retrieves a session's unpaid orders, oldest first
func (s *Store) GetPendingOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders WHERE session_id = $1 AND status = $2 ORDER BY created_at",
		sessionID, models.OrderStatusPending)
	return orders, err
}

// GetOrdersByEmail retrieves a customer's orders, newest first
func (s *Store) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders WHERE LOWER(email) = LOWER($1) ORDER BY created_at DESC", email)
	return orders, err
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT id, order_id, sku_id, item_name, size, qty, unit_price FROM order_items WHERE order_id = $1 ORDER BY id",
		orderID)
	return items, err
}

// RecordPayment stores the provider confirmation and links its reference to the order
func (s *Store) RecordPayment(ctx context.Context, payment *models.Payment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, payment, `
		INSERT INTO payments (order_id, provider, reference, amount_minor, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_id, provider, reference, amount_minor, currency, status, created_at, updated_at`,
		payment.OrderID, payment.Provider, payment.Reference, payment.AmountMinor, payment.Currency, payment.Status)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET payment_reference = $1, updated_at = NOW() WHERE id = $2",
		payment.Reference, payment.OrderID); err != nil {
		return fmt.Errorf("failed to link payment: %w", err)
	}

	return tx.Commit()
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
