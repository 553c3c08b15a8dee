package api

import (
	"net/http"
	"strings"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	DeliveryMethod string `json:"delivery_method"`
	pricing.ZoneSelection
}

type placeOrderRequest struct {
	quoteRequest
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
}

type paymentRequest struct {
	PaymentReference string `json:"payment_reference"`
	Status           string `json:"status" binding:"required"`
	Reason           string `json:"reason"`
}

func (h *Handler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	method, ok := pricing.ParseMethod(req.DeliveryMethod)
	if !ok {
		badRequest(c, "Invalid delivery method", nil)
		return
	}

	q, err := h.checkout.Quote(c.Request.Context(), session(c), method, req.ZoneSelection)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.quoteView(q))
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	method, ok := pricing.ParseMethod(req.DeliveryMethod)
	if !ok {
		badRequest(c, "Invalid delivery method", nil)
		return
	}

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		SessionID:      session(c),
		IdempotencyKey: c.GetHeader(IdempotencyHeader),
		Contact:        service.Contact{Name: req.Name, Email: req.Email, Phone: req.Phone},
		Method:         method,
		Zone:           req.ZoneSelection,
		Address:        req.Address,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	code := http.StatusCreated
	if placed.Duplicate {
		code = http.StatusOK
	}
	c.JSON(code, placedOrderView{
		Order:     h.orderView(placed.Order, placed.Items),
		Payment:   placed.Payment,
		Duplicate: placed.Duplicate,
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	detail, err := h.checkout.GetOrder(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.orderView(detail.Order, detail.Items))
}

func (h *Handler) orderHistory(c *gin.Context) {
	history, err := h.checkout.OrderHistory(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]orderView, 0, len(history))
	for _, d := range history {
		views = append(views, h.orderView(d.Order, d.Items))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// confirmPayment receives the payment widget callback
func (h *Handler) confirmPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	var success bool
	switch strings.ToLower(req.Status) {
	case "success":
		success = true
	case "failed", "cancelled":
	default:
		badRequest(c, "Invalid payment status", nil)
		return
	}

	order, err := h.payments.ConfirmPayment(c.Request.Context(), service.ConfirmPaymentRequest{
		Reference:        c.Param("reference"),
		PaymentReference: req.PaymentReference,
		Success:          success,
		Reason:           req.Reason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"reference":         order.Reference,
		"status":            order.Status,
		"payment_reference": order.PaymentReference,
		"settled":           order.Status != models.OrderStatusPending,
	})
}
