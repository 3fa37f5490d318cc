package actions

import (
	"math"
	"slices"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
	"grillmaster-pos/internal/validation"
)

// PlaceOrderOptions carries the pricing the caller already worked out.
// Total may be left nil; it then falls back to
// max(0, max(0, Subtotal-DiscountValue) + TaxAmount).
type PlaceOrderOptions struct {
	Subtotal       float64              `json:"subtotal"`
	DiscountType   models.DiscountType  `json:"discount_type"`
	DiscountValue  float64              `json:"discount_value"` // amount taken off, not the percent
	TaxRate        float64              `json:"tax_rate"`
	TaxAmount      float64              `json:"tax_amount"`
	Total          *float64             `json:"total"`
	AmountReceived float64              `json:"amount_received"`
	ChangeDue      float64              `json:"change_due"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	Status         models.OrderStatus   `json:"status"`
}

func (o PlaceOrderOptions) total() float64 {
	if o.Total != nil {
		return *o.Total
	}
	return math.Max(0, math.Max(0, o.Subtotal-o.DiscountValue)+o.TaxAmount)
}

// OrderUpdate lists the fields of a placed order that may still change.
type OrderUpdate struct {
	Status         *models.OrderStatus   `json:"status"`
	PaymentStatus  *models.PaymentStatus `json:"payment_status"`
	PaymentMethod  *models.PaymentMethod `json:"payment_method"`
	AmountReceived *float64              `json:"amount_received"`
	ChangeDue      *float64              `json:"change_due"`
}

// SetOrderType sets dine-in, takeaway or delivery for the next order.
func (a *Actions) SetOrderType(t models.OrderType) error {
	if !t.Valid() {
		return invalid("Invalid order type")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.ReplaceState(state.NewPatch().WithCurrentOrderType(t))
	return nil
}

// PricingFunc prices the cart that is about to become an order. Returning
// an error aborts the order and leaves the cart as it is.
type PricingFunc func(cart []models.CartItem) (PlaceOrderOptions, error)

// PlaceOrder turns the cart into an order. The order and the emptied cart
// are written in one replacement. An empty cart is rejected.
func (a *Actions) PlaceOrder(method models.PaymentMethod, opts PlaceOrderOptions) (models.Order, error) {
	return a.PlaceOrderPriced(method, func([]models.CartItem) (PlaceOrderOptions, error) {
		return opts, nil
	})
}

// PlaceOrderPriced is PlaceOrder with the options computed by price from
// the exact cart the order snapshots. Both happen under one lock, so the
// order's totals always describe its items.
func (a *Actions) PlaceOrderPriced(method models.PaymentMethod, price PricingFunc) (models.Order, error) {
	if method == "" {
		method = models.PaymentCash
	}
	if !method.Valid() {
		return models.Order{}, invalid("Invalid payment method")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	if len(current.Cart) == 0 {
		log.Warning("Cannot place order: cart is empty")
		return models.Order{}, invalid("Cart is empty")
	}
	items := slices.Clone(current.Cart)

	opts, err := price(slices.Clone(items))
	if err != nil {
		return models.Order{}, err
	}
	if opts.DiscountType == "" {
		opts.DiscountType = models.DiscountNone
	}
	if opts.PaymentStatus == "" {
		opts.PaymentStatus = models.PaymentStatusUnpaid
	}
	if opts.Status == "" {
		opts.Status = models.OrderStatusPreparing
	}

	order := models.Order{
		ID:             a.newID(),
		Items:          items,
		Customer:       current.CurrentCustomer,
		OrderType:      current.CurrentOrderType,
		Subtotal:       opts.Subtotal,
		DiscountValue:  opts.DiscountValue,
		DiscountType:   opts.DiscountType,
		TaxRate:        opts.TaxRate,
		TaxAmount:      opts.TaxAmount,
		Total:          opts.total(),
		AmountReceived: opts.AmountReceived,
		ChangeDue:      opts.ChangeDue,
		PaymentMethod:  method,
		PaymentStatus:  opts.PaymentStatus,
		Status:         opts.Status,
		Timestamp:      a.now(),
	}
	if err := validation.Order(order); err != nil {
		return models.Order{}, invalid(err.Error())
	}

	a.store.ReplaceState(state.NewPatch().
		WithOrders(append(slices.Clone(current.Orders), order)).
		WithCart([]models.CartItem{}))

	log.Infof("Order %s placed: total=%.2f method=%s", order.ID, order.Total, order.PaymentMethod)
	return order, nil
}

// UpdateOrder applies upd to the order with id.
func (a *Actions) UpdateOrder(id string, upd OrderUpdate) (models.Order, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updateOrder(id, upd)
}

func (a *Actions) updateOrder(id string, upd OrderUpdate) (models.Order, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return models.Order{}, invalid("Invalid order status")
	}
	if upd.PaymentMethod != nil && !upd.PaymentMethod.Valid() {
		return models.Order{}, invalid("Invalid payment method")
	}

	current := a.store.GetState()
	i := slices.IndexFunc(current.Orders, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return models.Order{}, notFound("Order")
	}

	order := current.Orders[i]
	if upd.Status != nil {
		order.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		order.PaymentStatus = *upd.PaymentStatus
	}
	if upd.PaymentMethod != nil {
		order.PaymentMethod = *upd.PaymentMethod
	}
	if upd.AmountReceived != nil {
		order.AmountReceived = *upd.AmountReceived
	}
	if upd.ChangeDue != nil {
		order.ChangeDue = *upd.ChangeDue
	}

	orders := slices.Clone(current.Orders)
	orders[i] = order
	a.store.ReplaceState(state.NewPatch().WithOrders(orders))
	return order, nil
}

// DeleteOrder removes the order with id.
func (a *Actions) DeleteOrder(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	orders := slices.DeleteFunc(slices.Clone(current.Orders), func(o models.Order) bool { return o.ID == id })
	if len(orders) == len(current.Orders) {
		return notFound("Order")
	}
	a.store.ReplaceState(state.NewPatch().WithOrders(orders))
	return nil
}

// MarkOrderPaid records a payment against an order. A nil or non-finite
// amount means the order's own total was received.
func (a *Actions) MarkOrderPaid(id string, amount *float64) (models.Order, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	i := slices.IndexFunc(current.Orders, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return models.Order{}, notFound("Order")
	}
	total := current.Orders[i].Total

	received := total
	if amount != nil && !math.IsNaN(*amount) && !math.IsInf(*amount, 0) {
		received = *amount
	}
	change := math.Max(0, received-total)
	status := models.PaymentStatusUnpaid
	if received >= total {
		status = models.PaymentStatusPaid
	}

	return a.updateOrder(id, OrderUpdate{
		AmountReceived: &received,
		ChangeDue:      &change,
		PaymentStatus:  &status,
	})
}
