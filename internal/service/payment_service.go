package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmPaymentRequest is the payment widget's callback for an order
type ConfirmPaymentRequest struct {
	Reference        string
	PaymentReference string
	Success          bool
	Reason           string
}

// PaymentService records provider confirmations and hands them to the saga
type PaymentService struct {
	orders    OrderRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(orders OrderRepository, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ConfirmPayment records the outcome of a payment for a pending order.
// Orders that already left PENDING are returned unchanged.
func (ps *PaymentService) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.ConfirmPayment")
	defer span.End()

	paymentRef := strings.TrimSpace(req.PaymentReference)
	if paymentRef == "" {
		return nil, fmt.Errorf("%w: missing payment reference", ErrInvalidPayment)
	}

	order, err := ps.orders.GetOrderByReference(ctx, req.Reference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, req.Reference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status != models.OrderStatusPending {
		ps.logger.Info("Payment confirmation for settled order ignored",
			zap.String("reference", order.Reference),
			zap.String("status", order.Status))
		return order, nil
	}

	status := models.PaymentStatusFailed
	if req.Success {
		status = models.PaymentStatusSuccess
	}
	util.PaymentConfirmationsTotal.WithLabelValues(status).Inc()

	payment := &models.Payment{
		OrderID:     order.ID,
		Provider:    PaymentProvider,
		Reference:   paymentRef,
		AmountMinor: pricing.MinorUnits(order.GrandTotal),
		Currency:    PaymentCurrency,
		Status:      status,
	}
	if err := ps.orders.RecordPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	order.PaymentReference = paymentRef

	ps.logger.Info("Payment recorded",
		zap.String("reference", order.Reference),
		zap.String("payment_reference", paymentRef),
		zap.String("status", status))

	base := models.BaseEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}

	if req.Success {
		base.EventType = models.EventTypePaymentSucceeded
		event := &models.PaymentSucceededEvent{
			BaseEvent:        base,
			OrderID:          order.ID,
			Reference:        order.Reference,
			SessionID:        order.SessionID,
			PaymentID:        payment.ID,
			PaymentReference: paymentRef,
			AmountMinor:      payment.AmountMinor,
		}
		if err := ps.publisher.PublishPaymentSucceeded(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to publish payment succeeded: %w", err)
		}
		return order, nil
	}

	reason := req.Reason
	if reason == "" {
		reason = "payment declined"
	}
	base.EventType = models.EventTypePaymentFailed
	event := &models.PaymentFailedEvent{
		BaseEvent:        base,
		OrderID:          order.ID,
		Reference:        order.Reference,
		PaymentReference: paymentRef,
		Reason:           reason,
	}
	if err := ps.publisher.PublishPaymentFailed(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish payment failed: %w", err)
	}
	return order, nil
}
