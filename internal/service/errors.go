package service

import "errors"

var (
	ErrVariantNotFound    = errors.New("variant not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSizeUnavailable    = errors.New("size unavailable")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrCapacityExceeded   = errors.New("max stock reached")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrZoneUnresolved     = errors.New("delivery area not selected")
	ErrInvalidContact     = errors.New("invalid contact details")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidPayment     = errors.New("invalid payment confirmation")

	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
)
