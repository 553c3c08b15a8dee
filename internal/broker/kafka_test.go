package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testConsumer() *Consumer {
	return &Consumer{logger: zap.NewNop(), retryBackoff: time.Millisecond}
}

func TestHandleWithRetryRecovers(t *testing.T) {
	c := testConsumer()
	attempts := 0
	handler := func(context.Context, kafka.Message) error {
		attempts++
		if attempts < 3 {
			return errors.New("postgres unavailable")
		}
		return nil
	}

	err := c.handleWithRetry(context.Background(), handler, kafka.Message{Offset: 7})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestHandleWithRetryDropsPoisonMessage(t *testing.T) {
	c := testConsumer()
	attempts := 0
	handler := func(context.Context, kafka.Message) error {
		attempts++
		return errors.New("order not found")
	}

	err := c.handleWithRetry(context.Background(), handler, kafka.Message{Offset: 9, Key: []byte("FAYM-1")})
	assert.NoError(t, err, "dropped messages are still committed")
	assert.Equal(t, maxHandlerAttempts, attempts)
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	c := testConsumer()
	c.retryBackoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	handler := func(context.Context, kafka.Message) error {
		attempts++
		cancel()
		return errors.New("boom")
	}

	err := c.handleWithRetry(ctx, handler, kafka.Message{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
