package api

import (
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
)

// Money is an amount with its display string
type Money struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func (h *Handler) money(d decimal.Decimal) Money {
	amount := d.StringFixed(2)
	return Money{Amount: amount, Display: h.currency + amount}
}

// fee displays a zero delivery fee as free
func (h *Handler) fee(d decimal.Decimal) Money {
	m := h.money(d)
	if d.IsZero() {
		m.Display = "Free"
	}
	return m
}

type variantView struct {
	SubCode        string `json:"sub_code"`
	ColorName      string `json:"color_name"`
	ColorHex       string `json:"color_hex"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Price          Money  `json:"price"`
	BasePrice      Money  `json:"base_price"`
	DiscountActive bool   `json:"discount_active"`
	IsNew          bool   `json:"is_new"`
}

type productView struct {
	ParentCode string        `json:"parent_code"`
	Name       string        `json:"product_name"`
	Category   string        `json:"category"`
	Image      string        `json:"image"`
	Price      Money         `json:"price"`
	Variants   []variantView `json:"variants"`
}

type productDetailView struct {
	productView
	Galleries map[string][]string `json:"galleries"`
}

func (h *Handler) variantView(v models.Variant) variantView {
	return variantView{
		SubCode:        v.SubCode,
		ColorName:      v.ColorName,
		ColorHex:       v.ColorHex,
		Description:    v.Description,
		Image:          catalog.FormatImage(v.MainImageURL),
		Price:          h.money(pricing.EffectivePrice(v)),
		BasePrice:      h.money(v.BasePrice),
		DiscountActive: v.DiscountActive,
		IsNew:          v.IsNew,
	}
}

func (h *Handler) productView(g catalog.ProductGroup) productView {
	view := productView{
		ParentCode: g.ParentCode,
		Name:       g.Name,
		Category:   g.Category,
		Image:      catalog.FormatImage(g.MainImageURL),
		Price:      h.money(pricing.EffectivePrice(g.Variant)),
		Variants:   make([]variantView, 0, len(g.Variants)),
	}
	for _, v := range g.Variants {
		view.Variants = append(view.Variants, h.variantView(v))
	}
	return view
}

func (h *Handler) productViews(groups []catalog.ProductGroup) []productView {
	views := make([]productView, 0, len(groups))
	for _, g := range groups {
		views = append(views, h.productView(g))
	}
	return views
}

type lineView struct {
	pricing.Line
	Image     string `json:"image"`
	UnitPrice Money  `json:"unit_price"`
	LineTotal Money  `json:"line_total"`
}

type cartView struct {
	Lines    []lineView `json:"lines"`
	Items    int        `json:"items"`
	Subtotal Money      `json:"subtotal"`
}

func (h *Handler) cartView(cart pricing.Cart) cartView {
	view := cartView{
		Lines:    make([]lineView, 0, len(cart)),
		Items:    pricing.ItemCount(cart),
		Subtotal: h.money(pricing.Subtotal(cart)),
	}
	for _, line := range cart {
		view.Lines = append(view.Lines, lineView{
			Line:      line,
			Image:     catalog.FormatImage(line.Image),
			UnitPrice: h.money(line.UnitPrice),
			LineTotal: h.money(line.Total()),
		})
	}
	return view
}

type quoteView struct {
	Method      pricing.Method `json:"delivery_method"`
	Zone        *models.Zone   `json:"zone,omitempty"`
	Items       int            `json:"items"`
	Subtotal    Money          `json:"subtotal"`
	DeliveryFee Money          `json:"delivery_fee"`
	Total       Money          `json:"total"`
	Status      pricing.Status `json:"status"`
	Ready       bool           `json:"ready"`
}

func (h *Handler) quoteView(q pricing.Quote) quoteView {
	return quoteView{
		Method:      q.Method,
		Zone:        q.Zone,
		Items:       q.Items,
		Subtotal:    h.money(q.Subtotal),
		DeliveryFee: h.fee(q.DeliveryFee),
		Total:       h.money(q.Total),
		Status:      q.Status,
		Ready:       q.Ready(),
	}
}

type orderItemView struct {
	models.OrderItem
	UnitPrice Money `json:"unit_price"`
	LineTotal Money `json:"line_total"`
}

type orderView struct {
	*models.Order
	Items       []orderItemView `json:"items"`
	SubtotalFmt Money           `json:"subtotal_display"`
	FeeFmt      Money           `json:"delivery_fee_display"`
	TotalFmt    Money           `json:"grand_total_display"`
}

func (h *Handler) orderView(order *models.Order, items []models.OrderItem) orderView {
	view := orderView{
		Order:       order,
		Items:       make([]orderItemView, 0, len(items)),
		SubtotalFmt: h.money(order.Subtotal),
		FeeFmt:      h.fee(order.DeliveryFee),
		TotalFmt:    h.money(order.GrandTotal),
	}
	for _, item := range items {
		view.Items = append(view.Items, orderItemView{
			OrderItem: item,
			UnitPrice: h.money(item.UnitPrice),
			LineTotal: h.money(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))),
		})
	}
	return view
}

type placedOrderView struct {
	Order     orderView              `json:"order"`
	Payment   service.PaymentHandoff `json:"payment"`
	Duplicate bool                   `json:"duplicate"`
}

type areaView struct {
	Area string `json:"area"`
	Fee  Money  `json:"delivery_fee"`
}
