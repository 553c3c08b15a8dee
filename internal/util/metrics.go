package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart operations by kind and reported status",
	}, []string{"op", "status"})

	CartStoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_store_errors_total",
		Help: "Cart slot read/write failures",
	}, []string{"op"})

	CheckoutQuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_quotes_total",
		Help: "Checkout quotes by delivery method and status",
	}, []string{"method", "status"})

	CatalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_total",
		Help: "Catalog snapshot cache lookups",
	}, []string{"result"})

	OrdersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders submitted for payment",
	}, []string{"method"})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_rejected_total",
		Help: "Order submissions rejected before payment",
	}, []string{"reason"})

	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_confirmed_total",
		Help: "Orders confirmed after payment",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_cancelled_total",
		Help: "Orders cancelled after a failed payment",
	})

	StockReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_stock_reserve_latency_seconds",
		Help:    "Latency of SKU stock reservation for an order",
		Buckets: prometheus.DefBuckets,
	})

	PaymentConfirmationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_confirmations_total",
		Help: "Payment provider confirmations by outcome",
	}, []string{"status"})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_order_grand_total",
		Help:    "Grand total of placed orders in major currency units",
		Buckets: []float64{50, 100, 200, 300, 500, 1000, 2000, 5000},
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
