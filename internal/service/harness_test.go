package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/redisclient"
	"storefront/internal/service/servicetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type harness struct {
	mr       *miniredis.Miniredis
	redis    *redisclient.Client
	source   *servicetest.Source
	orders   *servicetest.Orders
	events   *servicetest.Publisher
	catalog  *CatalogService
	carts    *CartService
	checkout *CheckoutService
	payments *PaymentService
	saga     *SagaOrchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redisclient.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })

	h := &harness{
		mr:     mr,
		redis:  rc,
		source: servicetest.Fixture(),
		orders: servicetest.NewOrders(),
		events: &servicetest.Publisher{},
	}
	h.catalog = NewCatalogService(h.source, rc, rc, time.Minute)
	h.carts = NewCartService(rc, h.catalog, time.Hour)
	h.checkout = NewCheckoutService(h.carts, h.catalog, h.orders, rc, rc, h.events,
		PaymentSettings{PublicKey: "pk_test_123", TestMode: true, ReferencePrefix: "FAYM"})
	h.payments = NewPaymentService(h.orders, h.events)
	h.saga = NewSagaOrchestrator(h.orders, rc, h.carts, h.catalog, h.events)

	require.NoError(t, h.catalog.SyncInventoryToRedis(context.Background()))
	return h
}

func (h *harness) stock(t *testing.T, sku string) (int, int) {
	t.Helper()
	available, reserved, err := h.redis.GetStock(context.Background(), sku)
	require.NoError(t, err)
	return available, reserved
}
