// Package checkout prices the cart at the payment step: discount, tax,
// change, and whether the payment may be confirmed.
package checkout

import (
	"math"
	"sync"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/models"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("checkout")

// DefaultTaxRate is the percentage applied when nothing else is configured.
const DefaultTaxRate = 15

// Quick-action presets offered next to the inputs.
var (
	PercentPresets = []float64{5, 10, 15, 20}
	FlatPresets    = []float64{100, 200, 500, 1000}
	CashPresets    = []float64{1000, 2000, 5000, 10000}
)

var errInsufficientCash = &actions.Error{Kind: actions.ErrValidation, Reason: "Insufficient cash received"}

// OrderPlacer turns the cart into an order, pricing the cart it snapshots
// through price. *actions.Actions satisfies it.
type OrderPlacer interface {
	PlaceOrderPriced(method models.PaymentMethod, price actions.PricingFunc) (models.Order, error)
}

var _ OrderPlacer = (*actions.Actions)(nil)

// Inputs are the fields the cashier edits during checkout.
type Inputs struct {
	DiscountType   models.DiscountType  `json:"discount_type"`
	DiscountValue  float64              `json:"discount_value"`
	TaxRate        float64              `json:"tax_rate"`
	PaymentMethod  models.PaymentMethod `json:"payment_method"`
	AmountReceived float64              `json:"amount_received"`
}

// Breakdown is everything the payment screen shows for one set of inputs.
type Breakdown struct {
	Inputs
	Subtotal              float64 `json:"subtotal"`
	DiscountAmount        float64 `json:"discount_amount"`
	SubtotalAfterDiscount float64 `json:"subtotal_after_discount"`
	TaxAmount             float64 `json:"tax_amount"`
	GrandTotal            float64 `json:"grand_total"`
	ChangeDue             float64 `json:"change_due"`
	AmountDue             float64 `json:"amount_due"`
	CanConfirm            bool    `json:"can_confirm"`
}

// Calculate prices subtotal under in.
func Calculate(subtotal float64, in Inputs) Breakdown {
	b := Breakdown{Inputs: in, Subtotal: subtotal}

	switch in.DiscountType {
	case models.DiscountPercent:
		b.DiscountAmount = subtotal * in.DiscountValue / 100
	case models.DiscountFlat:
		b.DiscountAmount = math.Min(in.DiscountValue, subtotal)
	}
	b.SubtotalAfterDiscount = math.Max(0, subtotal-b.DiscountAmount)
	b.TaxAmount = b.SubtotalAfterDiscount * in.TaxRate / 100
	b.GrandTotal = math.Max(0, b.SubtotalAfterDiscount+b.TaxAmount)

	b.ChangeDue = math.Max(0, in.AmountReceived-b.GrandTotal)
	b.AmountDue = math.Max(0, b.GrandTotal-in.AmountReceived)
	b.CanConfirm = in.PaymentMethod != models.PaymentCash || in.AmountReceived >= b.GrandTotal
	return b
}

// Engine holds the checkout inputs for one terminal between requests.
type Engine struct {
	mu             sync.Mutex
	placer         OrderPlacer
	subtotal       func() float64
	defaultTaxRate float64
	in             Inputs
}

// New builds an engine. subtotal is read on every quote so that the price
// always follows the live cart.
func New(placer OrderPlacer, subtotal func() float64, defaultTaxRate float64) *Engine {
	e := &Engine{placer: placer, subtotal: subtotal, defaultTaxRate: defaultTaxRate}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.in = Inputs{
		DiscountType:  models.DiscountNone,
		TaxRate:       e.defaultTaxRate,
		PaymentMethod: models.PaymentCash,
	}
}

// Quote prices the current cart under the current inputs.
func (e *Engine) Quote() Breakdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Calculate(e.subtotal(), e.in)
}

// amount maps NaN, infinities and negatives to zero.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SetDiscountType switches the discount mode. Choosing none clears the value.
func (e *Engine) SetDiscountType(t models.DiscountType) (Breakdown, error) {
	if !t.Valid() {
		return Breakdown{}, &actions.Error{Kind: actions.ErrValidation, Reason: "Invalid discount type"}
	}
	return e.change(func(in *Inputs) {
		in.DiscountType = t
		if t == models.DiscountNone {
			in.DiscountValue = 0
		}
	}), nil
}

// SetDiscountValue is a percentage or a currency amount depending on the type.
func (e *Engine) SetDiscountValue(v float64) Breakdown {
	return e.change(func(in *Inputs) { in.DiscountValue = amount(v) })
}

func (e *Engine) SetTaxRate(rate float64) Breakdown {
	return e.change(func(in *Inputs) { in.TaxRate = amount(rate) })
}

// SetPaymentMethod switches the method. Card and digital payments do not
// take cash, so the received amount is cleared for them.
func (e *Engine) SetPaymentMethod(m models.PaymentMethod) (Breakdown, error) {
	if !m.Valid() {
		return Breakdown{}, &actions.Error{Kind: actions.ErrValidation, Reason: "Invalid payment method"}
	}
	return e.change(func(in *Inputs) {
		in.PaymentMethod = m
		if m != models.PaymentCash && m != models.PaymentUnpaid {
			in.AmountReceived = 0
		}
	}), nil
}

func (e *Engine) SetAmountReceived(v float64) Breakdown {
	return e.change(func(in *Inputs) { in.AmountReceived = amount(v) })
}

// ApplyQuickPercent selects a percent discount of v.
func (e *Engine) ApplyQuickPercent(v float64) Breakdown {
	return e.change(func(in *Inputs) {
		in.DiscountType = models.DiscountPercent
		in.DiscountValue = amount(v)
	})
}

// ApplyQuickFlat selects a flat discount of v.
func (e *Engine) ApplyQuickFlat(v float64) Breakdown {
	return e.change(func(in *Inputs) {
		in.DiscountType = models.DiscountFlat
		in.DiscountValue = amount(v)
	})
}

// ApplyQuickCash records a banknote preset as the amount received.
func (e *Engine) ApplyQuickCash(v float64) Breakdown {
	return e.SetAmountReceived(v)
}

// ApplyExact sets the amount received to the current grand total.
func (e *Engine) ApplyExact() Breakdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.in.AmountReceived = Calculate(e.subtotal(), e.in).GrandTotal
	return Calculate(e.subtotal(), e.in)
}

func (e *Engine) change(fn func(*Inputs)) Breakdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.in)
	return Calculate(e.subtotal(), e.in)
}

// Confirm places the order priced by the current inputs. A cash payment
// below the grand total is refused. The cart is priced again inside the
// placement, so a line added after the last quote is charged for or, for a
// short cash payment, refuses the order. After a successful order the inputs
// go back to their defaults for the next customer.
func (e *Engine) Confirm() (models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.in
	if _, err := orderOptions(Calculate(e.subtotal(), in)); err != nil {
		return models.Order{}, err
	}

	order, err := e.placer.PlaceOrderPriced(in.PaymentMethod, func(cart []models.CartItem) (actions.PlaceOrderOptions, error) {
		return orderOptions(Calculate(cartSubtotal(cart), in))
	})
	if err != nil {
		return models.Order{}, err
	}

	e.reset()
	return order, nil
}

func orderOptions(b Breakdown) (actions.PlaceOrderOptions, error) {
	if !b.CanConfirm {
		log.Warningf("Checkout refused: received %.2f of %.2f", b.AmountReceived, b.GrandTotal)
		return actions.PlaceOrderOptions{}, errInsufficientCash
	}

	status := models.PaymentStatusPaid
	if b.PaymentMethod == models.PaymentUnpaid {
		status = models.PaymentStatusUnpaid
	}
	var received, change float64
	if b.PaymentMethod == models.PaymentCash {
		received, change = b.AmountReceived, b.ChangeDue
	}
	total := b.GrandTotal

	return actions.PlaceOrderOptions{
		Subtotal:       b.Subtotal,
		DiscountType:   b.DiscountType,
		DiscountValue:  b.DiscountAmount,
		TaxRate:        b.TaxRate,
		TaxAmount:      b.TaxAmount,
		Total:          &total,
		AmountReceived: received,
		ChangeDue:      change,
		PaymentStatus:  status,
	}, nil
}

func cartSubtotal(cart []models.CartItem) float64 {
	var sum float64
	for _, item := range cart {
		sum += item.LineTotal()
	}
	return sum
}

// Reset discards the current inputs.
func (e *Engine) Reset() Breakdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
	return Calculate(e.subtotal(), e.in)
}
