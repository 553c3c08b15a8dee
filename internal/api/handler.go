package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/service"
	"storefront/internal/util"
	"storefront/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	SessionHeader     = "X-Session-ID"
	IdempotencyHeader = "Idempotency-Key"

	sessionKey   = "session_id"
	probeTimeout = 2 * time.Second
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the application services behind the HTTP surface
type Services struct {
	Catalog  *service.CatalogService
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Payments *service.PaymentService
}

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	carts    *service.CartService
	checkout *service.CheckoutService
	payments *service.PaymentService
	currency string
	probes   map[string]Pinger
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. Amounts are displayed with the currency symbol.
func NewHandler(svc Services, currency string, probes map[string]Pinger) *Handler {
	return &Handler{
		catalog:  svc.Catalog,
		carts:    svc.Carts,
		checkout: svc.Checkout,
		payments: svc.Payments,
		currency: currency,
		probes:   probes,
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		catalog.GET("/products", h.listProducts)
		catalog.GET("/products/:parent", h.getProduct)
		catalog.GET("/categories", h.listCategories)
		catalog.GET("/latest", h.latestDrops)
		catalog.GET("/variants/:sub/sizes", h.sizeOptions)

		zones := v1.Group("/zones")
		zones.GET("/regions", h.listRegions)
		zones.GET("/towns", h.listTowns)
		zones.GET("/areas", h.listAreas)

		cart := v1.Group("/cart", requireSession())
		cart.GET("", h.getCart)
		cart.POST("/lines", h.addLine)
		cart.PATCH("/lines/:index", h.updateLine)
		cart.DELETE("/lines/:index", h.removeLine)

		v1.POST("/checkout/quote", requireSession(), h.quote)

		v1.POST("/orders", requireSession(), h.placeOrder)
		v1.GET("/orders", h.orderHistory)
		v1.GET("/orders/:reference", h.getOrder)
		v1.POST("/orders/:reference/payment", h.confirmPayment)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.probes))
	ready := true
	for name, probe := range h.probes {
		if err := probe.Ping(ctx); err != nil {
			h.logger.Warn("Readiness probe failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "down"
			ready = false
			continue
		}
		checks[name] = "up"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().Unix(),
	})
}

// requireSession rejects cart and checkout calls without a usable session id
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := validate.Key(c.GetHeader(SessionHeader))
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Missing or invalid " + SessionHeader + " header",
			})
			return
		}
		c.Set(sessionKey, sessionID)
		c.Next()
	}
}

func session(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// fail maps service errors to HTTP responses. Unknown errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSizeUnavailable),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrSubmissionInFlight):
		status = http.StatusConflict
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrZoneUnresolved),
		errors.Is(err, service.ErrInvalidContact),
		errors.Is(err, service.ErrInvalidIdempotencyKey),
		errors.Is(err, service.ErrInvalidPayment):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "Something went wrong. Please try again."})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
