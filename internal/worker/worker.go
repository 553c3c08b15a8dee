package worker

import (
	"context"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// MessageSource delivers order topic messages to a handler
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// PaymentSettler reacts to payment outcomes
type PaymentSettler interface {
	HandlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error
	HandlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error
}

// OrderWorker settles pending orders from payment events on the order topic
type OrderWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewOrderWorker creates a new order worker
func NewOrderWorker(consumer MessageSource, settler PaymentSettler) *OrderWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnPaymentSucceeded(settler.HandlePaymentSucceeded)
	eventHandler.OnPaymentFailed(settler.HandlePaymentFailed)

	return &OrderWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *OrderWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderWorker) Stop() error {
	w.logger.Info("Stopping order worker")
	return w.consumer.Close()
}
