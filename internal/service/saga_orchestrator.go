package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SagaOrchestrator settles pending orders once their payment outcome is known
type SagaOrchestrator struct {
	orders    OrderRepository
	stock     StockReserver
	carts     *CartService
	catalog   *CatalogService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewSagaOrchestrator creates a new saga orchestrator
func NewSagaOrchestrator(
	orders OrderRepository,
	stock StockReserver,
	carts *CartService,
	catalogService *CatalogService,
	publisher EventPublisher,
) *SagaOrchestrator {
	return &SagaOrchestrator{
		orders:    orders,
		stock:     stock,
		carts:     carts,
		catalog:   catalogService,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// HandlePaymentSucceeded marks the order paid, commits its stock and clears the cart
func (so *SagaOrchestrator) HandlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	ctx, span := util.StartSpan(ctx, "SagaOrchestrator.HandlePaymentSucceeded")
	defer span.End()

	processed, err := so.orders.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		so.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order, err := so.orders.GetOrderByReference(ctx, event.Reference)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order.Status != models.OrderStatusPending {
		so.logger.Info("Order already settled", zap.String("reference", order.Reference), zap.String("status", order.Status))
		return so.markProcessed(ctx, event.BaseEvent)
	}

	so.logger.Info("Handling payment success",
		zap.String("reference", order.Reference),
		zap.String("payment_reference", event.PaymentReference))

	if err := so.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	items, err := so.orders.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range items {
		if err := so.stock.CommitStock(ctx, item.SKU, item.Qty); err != nil {
			so.logger.Error("Failed to commit reserved stock",
				zap.String("sku_id", item.SKU),
				zap.Error(err))
		}
		if err := so.orders.CommitStock(ctx, item.SKU, item.Qty); err != nil {
			so.logger.Error("Failed to decrement inventory",
				zap.String("sku_id", item.SKU),
				zap.Error(err))
		}
	}

	so.catalog.Invalidate(ctx)

	if err := so.carts.Clear(ctx, order.SessionID); err != nil {
		so.logger.Error("Failed to clear cart after payment",
			zap.String("reference", order.Reference),
			zap.Error(err))
	}

	util.OrdersConfirmedTotal.Inc()

	confirmed := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now().UTC(),
		},
		OrderID:   order.ID,
		Reference: order.Reference,
	}
	if err := so.publisher.PublishOrderConfirmed(ctx, confirmed); err != nil {
		so.logger.Error("Failed to publish order confirmed", zap.Error(err))
	}

	so.logger.Info("Order confirmed", zap.String("reference", order.Reference))
	return so.markProcessed(ctx, event.BaseEvent)
}

// HandlePaymentFailed releases the order's stock and cancels it. The cart is left as-is.
func (so *SagaOrchestrator) HandlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	ctx, span := util.StartSpan(ctx, "SagaOrchestrator.HandlePaymentFailed")
	defer span.End()

	processed, err := so.orders.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		so.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order, err := so.orders.GetOrderByReference(ctx, event.Reference)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order.Status != models.OrderStatusPending {
		so.logger.Info("Order already settled", zap.String("reference", order.Reference), zap.String("status", order.Status))
		return so.markProcessed(ctx, event.BaseEvent)
	}

	so.logger.Warn("Handling payment failure - starting compensation",
		zap.String("reference", order.Reference),
		zap.String("reason", event.Reason))

	items, err := so.orders.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range items {
		if err := so.stock.ReleaseStock(ctx, item.SKU, item.Qty); err != nil {
			so.logger.Error("Failed to release stock during compensation",
				zap.String("sku_id", item.SKU),
				zap.Error(err))
		}
	}

	if err := so.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrdersCancelledTotal.Inc()

	cancelled := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now().UTC(),
		},
		OrderID:   order.ID,
		Reference: order.Reference,
		Reason:    event.Reason,
	}
	if err := so.publisher.PublishOrderCancelled(ctx, cancelled); err != nil {
		so.logger.Error("Failed to publish order cancelled", zap.Error(err))
	}

	so.logger.Info("Order cancelled and compensated", zap.String("reference", order.Reference))
	return so.markProcessed(ctx, event.BaseEvent)
}

func (so *SagaOrchestrator) markProcessed(ctx context.Context, event models.BaseEvent) error {
	if err := so.orders.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		so.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}
