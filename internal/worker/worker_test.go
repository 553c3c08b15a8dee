package worker

import (
	"context"
	"encoding/json"
	"testing"

	"storefront/internal/broker"
	"storefront/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replayConsumer struct {
	messages []kafka.Message
	errs     []error
	closed   bool
}

func (c *replayConsumer) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range c.messages {
		c.errs = append(c.errs, handler(ctx, msg))
	}
	return nil
}

func (c *replayConsumer) Close() error {
	c.closed = true
	return nil
}

type recordingSettler struct {
	succeeded []string
	failed    []string
}

func (s *recordingSettler) HandlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	s.succeeded = append(s.succeeded, event.Reference)
	return nil
}

func (s *recordingSettler) HandlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	s.failed = append(s.failed, event.Reference)
	return nil
}

func encode(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestOrderWorkerRoutesPaymentEvents(t *testing.T) {
	consumer := &replayConsumer{messages: []kafka.Message{
		encode(t, models.PaymentSucceededEvent{
			BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypePaymentSucceeded},
			Reference: "FAYM-1",
		}),
		encode(t, models.OrderPlacedEvent{
			BaseEvent: models.BaseEvent{EventID: "e2", EventType: models.EventTypeOrderPlaced},
			Reference: "FAYM-2",
		}),
		encode(t, models.PaymentFailedEvent{
			BaseEvent: models.BaseEvent{EventID: "e3", EventType: models.EventTypePaymentFailed},
			Reference: "FAYM-3",
		}),
	}}
	settler := &recordingSettler{}

	w := NewOrderWorker(consumer, settler)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())

	assert.Equal(t, []string{"FAYM-1"}, settler.succeeded)
	assert.Equal(t, []string{"FAYM-3"}, settler.failed)
	assert.Equal(t, []error{nil, nil, nil}, consumer.errs)
	assert.True(t, consumer.closed)
}
