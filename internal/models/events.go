package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced      = "ORDER_PLACED"
	EventTypeOrderConfirmed   = "ORDER_CONFIRMED"
	EventTypeOrderCancelled   = "ORDER_CANCELLED"
	EventTypePaymentSucceeded = "PAYMENT_SUCCEEDED"
	EventTypePaymentFailed    = "PAYMENT_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when a checkout snapshot is stored
type OrderPlacedEvent struct {
	BaseEvent
	OrderID        int64           `json:"order_id"`
	Reference      string          `json:"reference"`
	SessionID      string          `json:"session_id"`
	DeliveryMethod string          `json:"delivery_method"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	Items          []OrderItemData `json:"items"`
}

// OrderConfirmedEvent published once payment is confirmed and the cart cleared
type OrderConfirmedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	Reference string `json:"reference"`
}

// OrderCancelledEvent published when a failed payment is compensated
type OrderCancelledEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// PaymentSucceededEvent published when the payment provider confirms an order
type PaymentSucceededEvent struct {
	BaseEvent
	OrderID          int64  `json:"order_id"`
	Reference        string `json:"reference"`
	SessionID        string `json:"session_id"`
	PaymentID        int64  `json:"payment_id"`
	PaymentReference string `json:"payment_reference"`
	AmountMinor      int64  `json:"amount_minor"`
}

// PaymentFailedEvent published when the payment provider declines an order
type PaymentFailedEvent struct {
	BaseEvent
	OrderID          int64  `json:"order_id"`
	Reference        string `json:"reference"`
	PaymentReference string `json:"payment_reference"`
	Reason           string `json:"reason"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	SKU       string          `json:"sku_id"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
