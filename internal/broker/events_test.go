package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: raw}
}

func TestHandleMessageRoutesPaymentEvents(t *testing.T) {
	eh := NewEventHandler()

	var succeeded *models.PaymentSucceededEvent
	var failed *models.PaymentFailedEvent
	eh.OnPaymentSucceeded(func(_ context.Context, e *models.PaymentSucceededEvent) error {
		succeeded = e
		return nil
	})
	eh.OnPaymentFailed(func(_ context.Context, e *models.PaymentFailedEvent) error {
		failed = e
		return nil
	})

	ok := &models.PaymentSucceededEvent{
		BaseEvent:        models.BaseEvent{EventID: "e1", EventType: models.EventTypePaymentSucceeded, Timestamp: time.Now()},
		OrderID:          7,
		Reference:        "FAYM-1",
		PaymentReference: "psk_123",
		AmountMinor:      56000,
	}
	require.NoError(t, eh.HandleMessage(context.Background(), message(t, ok)))
	require.NotNil(t, succeeded)
	assert.Equal(t, int64(56000), succeeded.AmountMinor)
	assert.Nil(t, failed)

	bad := &models.PaymentFailedEvent{
		BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypePaymentFailed},
		OrderID:   7,
		Reason:    "declined",
	}
	require.NoError(t, eh.HandleMessage(context.Background(), message(t, bad)))
	require.NotNil(t, failed)
	assert.Equal(t, "declined", failed.Reason)
}

func TestHandleMessageSkipsOtherEvents(t *testing.T) {
	eh := NewEventHandler()
	called := false
	eh.OnPaymentSucceeded(func(context.Context, *models.PaymentSucceededEvent) error {
		called = true
		return nil
	})

	placed := &models.OrderPlacedEvent{BaseEvent: models.BaseEvent{EventID: "e3", EventType: models.EventTypeOrderPlaced}}
	assert.NoError(t, eh.HandleMessage(context.Background(), message(t, placed)))
	assert.False(t, called)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	err := NewEventHandler().HandleMessage(context.Background(), kafka.Message{Value: []byte("nope")})
	assert.Error(t, err)
}
