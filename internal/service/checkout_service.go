package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/validate"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	PaymentProvider = "paystack"
	PaymentCurrency = "GHS"
	PickupLocation  = "Store Pickup"

	supersededReason = "superseded by a new submission"

	submissionTTL = 2 * time.Minute
)

// PaymentSettings configures the payment handoff returned to the client
type PaymentSettings struct {
	PublicKey       string
	TestMode        bool
	ReferencePrefix string
}

// Contact is the customer block of the checkout form
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PlaceOrderRequest is a checkout submission
type PlaceOrderRequest struct {
	SessionID      string
	IdempotencyKey string
	Contact        Contact
	Method         pricing.Method
	Zone           pricing.ZoneSelection
	Address        string
}

// CustomField is one metadata entry shown on the provider's receipt
type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

// PaymentHandoff is what the client needs to open the payment widget
type PaymentHandoff struct {
	Provider    string        `json:"provider"`
	PublicKey   string        `json:"public_key"`
	Email       string        `json:"email"`
	AmountMinor int64         `json:"amount"`
	Currency    string        `json:"currency"`
	Reference   string        `json:"reference"`
	TestMode    bool          `json:"test_mode"`
	Metadata    []CustomField `json:"custom_fields"`
}

// PlacedOrder is the result of a checkout submission
type PlacedOrder struct {
	Order     *models.Order      `json:"order"`
	Items     []models.OrderItem `json:"items"`
	Payment   PaymentHandoff     `json:"payment"`
	Duplicate bool               `json:"duplicate"`
}

// OrderDetail is an order with its lines
type OrderDetail struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// CheckoutService prices carts and turns them into pending orders
type CheckoutService struct {
	carts     *CartService
	catalog   *CatalogService
	orders    OrderRepository
	stock     StockReserver
	guard     IdempotencyGuard
	publisher EventPublisher
	settings  PaymentSettings
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts *CartService,
	catalogService *CatalogService,
	orders OrderRepository,
	stock StockReserver,
	guard IdempotencyGuard,
	publisher EventPublisher,
	settings PaymentSettings,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		catalog:   catalogService,
		orders:    orders,
		stock:     stock,
		guard:     guard,
		publisher: publisher,
		settings:  settings,
		logger:    util.GetLogger(),
	}
}

// Quote prices the session cart for a delivery choice
func (s *CheckoutService) Quote(ctx context.Context, sessionID string, method pricing.Method, sel pricing.ZoneSelection) (pricing.Quote, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Quote")
	defer span.End()

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return s.price(ctx, cart, method, sel)
}

func (s *CheckoutService) price(ctx context.Context, cart pricing.Cart, method pricing.Method, sel pricing.ZoneSelection) (pricing.Quote, error) {
	zones, err := s.catalog.Zones(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	q := pricing.Checkout(cart, method, sel, zones)
	util.CheckoutQuotesTotal.WithLabelValues(string(method), string(q.Status)).Inc()
	return q, nil
}

// PlaceOrder validates the checkout form, reserves stock and stores a pending order.
// The cart stays intact until the payment is confirmed.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlacedOrder, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder",
		attribute.String("delivery_method", string(req.Method)))
	defer span.End()

	logger := util.SessionLogger(req.SessionID)

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	} else {
		key, ok := validate.Key(req.IdempotencyKey)
		if !ok {
			return nil, ErrInvalidIdempotencyKey
		}
		req.IdempotencyKey = key
	}

	if existing, err := s.existing(ctx, req.IdempotencyKey); err != nil || existing != nil {
		return existing, err
	}

	cart, err := s.carts.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	quote, err := s.price(ctx, cart, req.Method, req.Zone)
	if err != nil {
		return nil, err
	}
	switch quote.Status {
	case pricing.StatusEmptyCart:
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	case pricing.StatusZoneUnresolved:
		util.OrdersRejectedTotal.WithLabelValues("zone_unresolved").Inc()
		return nil, ErrZoneUnresolved
	}

	order, err := s.buildOrder(req, quote)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_contact").Inc()
		return nil, err
	}

	claimed, err := s.guard.ClaimIdempotencyKey(ctx, req.IdempotencyKey, order.Reference, submissionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if !claimed {
		if existing, err := s.existing(ctx, req.IdempotencyKey); err != nil || existing != nil {
			return existing, err
		}
		return nil, ErrSubmissionInFlight
	}

	items := orderItems(cart)

	reused, err := s.supersede(ctx, order, items)
	if err != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, err
	}
	if reused != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		logger.Info("Resuming pending order", zap.String("reference", reused.Order.Reference))
		return reused, nil
	}

	if err := s.reserve(ctx, items); err != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		util.OrdersRejectedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		s.release(ctx, items)
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now().UTC(),
		},
		OrderID:        order.ID,
		Reference:      order.Reference,
		SessionID:      order.SessionID,
		DeliveryMethod: order.DeliveryMethod,
		GrandTotal:     order.GrandTotal,
		Items:          eventItems(items),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.Error("Failed to publish order placed event",
			zap.String("reference", order.Reference),
			zap.Error(err))
	}

	util.OrdersPlacedTotal.WithLabelValues(order.DeliveryMethod).Inc()
	util.OrderValue.Observe(order.GrandTotal.InexactFloat64())

	logger.Info("Order placed",
		zap.String("reference", order.Reference),
		zap.String("delivery_method", order.DeliveryMethod),
		zap.String("grand_total", order.GrandTotal.String()))

	return &PlacedOrder{Order: order, Items: items, Payment: s.handoff(order)}, nil
}

// GetOrder returns an order and its lines by reference
func (s *CheckoutService) GetOrder(ctx context.Context, reference string) (*OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.GetOrder")
	defer span.End()

	order, err := s.orders.GetOrderByReference(ctx, reference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	items, err := s.orders.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return &OrderDetail{Order: order, Items: items}, nil
}

// OrderHistory lists a customer's orders, newest first
func (s *CheckoutService) OrderHistory(ctx context.Context, email string) ([]OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.OrderHistory")
	defer span.End()

	email, ok := validate.Email(email)
	if !ok {
		return nil, fmt.Errorf("%w: email", ErrInvalidContact)
	}
	orders, err := s.orders.GetOrdersByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	history := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		items, err := s.orders.GetOrderItemsByOrderID(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order items: %w", err)
		}
		history = append(history, OrderDetail{Order: &orders[i], Items: items})
	}
	return history, nil
}

func (s *CheckoutService) existing(ctx context.Context, key string) (*PlacedOrder, error) {
	order, err := s.orders.GetOrderByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if order == nil {
		return nil, nil
	}
	items, err := s.orders.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	s.logger.Info("Order already exists for idempotency key", zap.String("reference", order.Reference))
	return &PlacedOrder{Order: order, Items: items, Payment: s.handoff(order), Duplicate: true}, nil
}

// supersede settles the session's earlier unpaid submissions. One matching next is
// handed back for payment; the rest are cancelled and their stock released.
func (s *CheckoutService) supersede(ctx context.Context, next *models.Order, items []models.OrderItem) (*PlacedOrder, error) {
	pending, err := s.orders.GetPendingOrdersBySession(ctx, next.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending orders: %w", err)
	}

	var reused *PlacedOrder
	for i := range pending {
		prev := &pending[i]
		prevItems, err := s.orders.GetOrderItemsByOrderID(ctx, prev.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order items: %w", err)
		}
		if reused == nil && sameSubmission(prev, prevItems, next, items) {
			reused = &PlacedOrder{Order: prev, Items: prevItems, Payment: s.handoff(prev), Duplicate: true}
			continue
		}
		if err := s.cancelSuperseded(ctx, prev, prevItems); err != nil {
			return nil, err
		}
	}
	return reused, nil
}

func (s *CheckoutService) cancelSuperseded(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := s.orders.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel superseded order: %w", err)
	}
	s.release(ctx, items)
	util.OrdersCancelledTotal.Inc()

	event := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now().UTC(),
		},
		OrderID:   order.ID,
		Reference: order.Reference,
		Reason:    supersededReason,
	}
	if err := s.publisher.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish order cancelled", zap.Error(err))
	}

	s.logger.Info("Superseded pending order cancelled", zap.String("reference", order.Reference))
	return nil
}

// sameSubmission reports whether two orders would charge the same customer the same amount for the same lines
func sameSubmission(a *models.Order, aItems []models.OrderItem, b *models.Order, bItems []models.OrderItem) bool {
	if !a.GrandTotal.Equal(b.GrandTotal) ||
		a.DeliveryMethod != b.DeliveryMethod ||
		a.Location != b.Location ||
		a.Region != b.Region || a.TownCity != b.TownCity || a.AreaLocality != b.AreaLocality ||
		a.CustomerName != b.CustomerName || a.Email != b.Email || a.Phone != b.Phone ||
		len(aItems) != len(bItems) {
		return false
	}
	for i := range aItems {
		if aItems[i].SKU != bItems[i].SKU ||
			aItems[i].Qty != bItems[i].Qty ||
			!aItems[i].UnitPrice.Equal(bItems[i].UnitPrice) {
			return false
		}
	}
	return true
}

func (s *CheckoutService) buildOrder(req PlaceOrderRequest, quote pricing.Quote) (*models.Order, error) {
	name, ok := validate.Name(req.Contact.Name)
	if !ok {
		return nil, fmt.Errorf("%w: name", ErrInvalidContact)
	}
	email, ok := validate.Email(req.Contact.Email)
	if !ok {
		return nil, fmt.Errorf("%w: email", ErrInvalidContact)
	}
	phone, ok := validate.Phone(req.Contact.Phone)
	if !ok {
		return nil, fmt.Errorf("%w: phone", ErrInvalidContact)
	}

	order := &models.Order{
		Reference:      s.newReference(),
		SessionID:      req.SessionID,
		CustomerName:   name,
		Email:          strings.ToLower(email),
		Phone:          phone,
		DeliveryMethod: string(quote.Method),
		Location:       PickupLocation,
		Subtotal:       quote.Subtotal,
		DeliveryFee:    quote.DeliveryFee,
		GrandTotal:     quote.Total,
		Status:         models.OrderStatusPending,
		IdempotencyKey: req.IdempotencyKey,
	}

	if quote.Method == pricing.MethodDelivery {
		address, ok := validate.Address(req.Address)
		if !ok {
			return nil, fmt.Errorf("%w: address", ErrInvalidContact)
		}
		order.Location = address
		order.Region = quote.Zone.Region
		order.TownCity = quote.Zone.TownCity
		order.AreaLocality = quote.Zone.AreaLocality
	}
	return order, nil
}

func (s *CheckoutService) newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	if s.settings.ReferencePrefix == "" {
		return id
	}
	return s.settings.ReferencePrefix + "-" + id
}

func (s *CheckoutService) handoff(order *models.Order) PaymentHandoff {
	return PaymentHandoff{
		Provider:    PaymentProvider,
		PublicKey:   s.settings.PublicKey,
		Email:       order.Email,
		AmountMinor: pricing.MinorUnits(order.GrandTotal),
		Currency:    PaymentCurrency,
		Reference:   order.Reference,
		TestMode:    s.settings.TestMode,
		Metadata: []CustomField{
			{DisplayName: "Customer Name", VariableName: "customer_name", Value: order.CustomerName},
			{DisplayName: "Phone", VariableName: "phone", Value: order.Phone},
			{DisplayName: "Delivery Method", VariableName: "delivery_method", Value: order.DeliveryMethod},
		},
	}
}

// reserve holds stock for every item, undoing earlier holds when one fails
func (s *CheckoutService) reserve(ctx context.Context, items []models.OrderItem) error {
	start := time.Now()
	defer func() {
		util.StockReserveLatency.Observe(time.Since(start).Seconds())
	}()

	for i, item := range items {
		ok, err := s.stock.ReserveStock(ctx, item.SKU, item.Qty)
		if err == nil && ok {
			continue
		}
		s.release(ctx, items[:i])
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInsufficientStock, item.SKU, err)
		}
		return fmt.Errorf("%w: %s", ErrInsufficientStock, item.SKU)
	}
	return nil
}

func (s *CheckoutService) release(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.stock.ReleaseStock(ctx, item.SKU, item.Qty); err != nil {
			s.logger.Error("Failed to release stock",
				zap.String("sku_id", item.SKU),
				zap.Error(err))
		}
	}
}

func (s *CheckoutService) releaseKey(ctx context.Context, key string) {
	if err := s.guard.ReleaseIdempotencyKey(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.Error(err))
	}
}

func orderItems(cart pricing.Cart) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		items = append(items, models.OrderItem{
			SKU:       line.SKU,
			ItemName:  line.ProductName,
			Size:      string(line.Size),
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return items
}

func eventItems(items []models.OrderItem) []models.OrderItemData {
	data := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, models.OrderItemData{SKU: item.SKU, Qty: item.Qty, UnitPrice: item.UnitPrice})
	}
	return data
}
