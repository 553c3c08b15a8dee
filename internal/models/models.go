package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is one purchasable color/style of a parent product
type Variant struct {
	ParentCode     string          `db:"parent_code" json:"parent_code"`
	SubCode        string          `db:"sub_code" json:"sub_code"`
	Name           string          `db:"product_name" json:"product_name"`
	Category       string          `db:"category" json:"category"`
	ColorName      string          `db:"color_name" json:"color_name"`
	ColorHex       string          `db:"color_hex" json:"color_hex"`
	Description    string          `db:"description" json:"description"`
	MainImageURL   string          `db:"main_image_url" json:"main_image_url"`
	GalleryImages  string          `db:"gallery_images" json:"gallery_images"`
	BasePrice      decimal.Decimal `db:"base_price" json:"base_price"`
	DiscountPrice  decimal.Decimal `db:"discount_price" json:"discount_price"`
	DiscountActive bool            `db:"discount_active" json:"discount_active"`
	IsNew          bool            `db:"is_new" json:"is_new"`
}

// InventoryRow is the stock of one (variant, size) pair
type InventoryRow struct {
	SubCode  string `db:"sub_code" json:"sub_code"`
	Size     string `db:"size" json:"size"`
	StockQty int    `db:"stock_qty" json:"stock_qty"`
	SKUID    string `db:"sku_id" json:"sku_id"`
}

// Zone is one deliverable area with its flat fee
type Zone struct {
	Region        string          `db:"region" json:"Region"`
	TownCity      string          `db:"town_city" json:"Town_City"`
	AreaLocality  string          `db:"area_locality" json:"Area_Locality"`
	DeliveryPrice decimal.Decimal `db:"delivery_price" json:"Delivery_Price"`
}

// CatalogSnapshot holds the read-only tables for one session
type CatalogSnapshot struct {
	Variants  []Variant      `json:"products"`
	Inventory []InventoryRow `json:"inventory"`
	Zones     []Zone         `json:"locations"`
	LoadedAt  time.Time      `json:"loaded_at"`
}

// Order is a submitted checkout snapshot
type Order struct {
	ID               int64           `db:"id" json:"id"`
	Reference        string          `db:"reference" json:"reference"`
	SessionID        string          `db:"session_id" json:"-"`
	CustomerName     string          `db:"customer_name" json:"customer_name"`
	Email            string          `db:"email" json:"email"`
	Phone            string          `db:"phone" json:"phone"`
	DeliveryMethod   string          `db:"delivery_method" json:"delivery_method"`
	Location         string          `db:"location" json:"location"`
	Region           string          `db:"region" json:"region,omitempty"`
	TownCity         string          `db:"town_city" json:"town_city,omitempty"`
	AreaLocality     string          `db:"area_locality" json:"area_locality,omitempty"`
	Subtotal         decimal.Decimal `db:"subtotal" json:"subtotal"`
	DeliveryFee      decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	GrandTotal       decimal.Decimal `db:"grand_total" json:"grand_total"`
	Status           string          `db:"status" json:"status"`
	PaymentReference string          `db:"payment_reference" json:"payment_reference,omitempty"`
	IdempotencyKey   string          `db:"idempotency_key" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is one cart line frozen into an order
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	SKU       string          `db:"sku_id" json:"sku_id"`
	ItemName  string          `db:"item_name" json:"item_name"`
	Size      string          `db:"size" json:"size"`
	Qty       int             `db:"qty" json:"qty"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"price"`
}

// Payment is the provider confirmation recorded for an order
type Payment struct {
	ID          int64     `db:"id" json:"id"`
	OrderID     int64     `db:"order_id" json:"order_id"`
	Provider    string    `db:"provider" json:"provider"`
	Reference   string    `db:"reference" json:"reference"`
	AmountMinor int64     `db:"amount_minor" json:"amount_minor"`
	Currency    string    `db:"currency" json:"currency"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusPaid       = "PAID"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Payment statuses
const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
