package state

import (
	"slices"

	"grillmaster-pos/internal/models"

	"github.com/tiendc/go-deepcopy"
)

// AppState is the root aggregate owned by a Store.
type AppState struct {
	Products         []models.Product
	Orders           []models.Order
	Customers        []models.Customer
	Cart             []models.CartItem
	CurrentCustomer  *models.Customer
	CurrentOrderType models.OrderType
	ActionHistory    []HistoryEntry // most recent first, at most MaxHistory
	LastAction       *ActionKind
}

// Initial is the empty state a terminal boots with before anything is loaded.
func Initial() AppState {
	return AppState{
		Products:         []models.Product{},
		Orders:           []models.Order{},
		Customers:        []models.Customer{},
		Cart:             []models.CartItem{},
		CurrentOrderType: models.OrderTypeDineIn,
		ActionHistory:    []HistoryEntry{},
	}
}

// Clone returns a copy that shares no mutable memory with s.
// History entries are immutable once recorded, so only the slice is copied.
func (s AppState) Clone() AppState {
	out := AppState{
		CurrentOrderType: s.CurrentOrderType,
		ActionHistory:    slices.Clone(s.ActionHistory),
	}
	copyInto(&out.Products, &s.Products)
	out.Orders = cloneOrders(s.Orders)
	copyInto(&out.Customers, &s.Customers)
	copyInto(&out.Cart, &s.Cart)
	if s.CurrentCustomer != nil {
		c := *s.CurrentCustomer
		out.CurrentCustomer = &c
	}
	if s.LastAction != nil {
		k := *s.LastAction
		out.LastAction = &k
	}
	return out
}

func copyInto[T any](dst *[]T, src *[]T) {
	if *src == nil {
		return
	}
	if err := deepcopy.Copy(dst, src); err != nil {
		log.Errorf("Snapshot copy failed: %v", err)
		*dst = slices.Clone(*src) // shallow fallback
	}
}

// Orders carry time.Time, which has unexported fields, so they are copied by hand.
func cloneOrders(src []models.Order) []models.Order {
	if src == nil {
		return nil
	}
	out := make([]models.Order, len(src))
	for i, o := range src {
		o.Items = slices.Clone(o.Items)
		if o.Customer != nil {
			c := *o.Customer
			o.Customer = &c
		}
		out[i] = o
	}
	return out
}

type field uint16

const (
	fieldProducts field = 1 << iota
	fieldOrders
	fieldCustomers
	fieldCart
	fieldCurrentCustomer
	fieldCurrentOrderType
	fieldActionHistory
	fieldLastAction
)

// Patch is a shallow set of top-level fields to overwrite. Only the fields
// set through its With* methods are applied; everything else is untouched.
type Patch struct {
	set   field
	state AppState
}

// NewPatch starts an empty patch.
func NewPatch() Patch { return Patch{} }

func (p Patch) WithProducts(v []models.Product) Patch {
	p.state.Products, p.set = v, p.set|fieldProducts
	return p
}

func (p Patch) WithOrders(v []models.Order) Patch {
	p.state.Orders, p.set = v, p.set|fieldOrders
	return p
}

func (p Patch) WithCustomers(v []models.Customer) Patch {
	p.state.Customers, p.set = v, p.set|fieldCustomers
	return p
}

func (p Patch) WithCart(v []models.CartItem) Patch {
	p.state.Cart, p.set = v, p.set|fieldCart
	return p
}

// WithCurrentCustomer sets the active customer; nil clears the selection.
func (p Patch) WithCurrentCustomer(v *models.Customer) Patch {
	p.state.CurrentCustomer, p.set = v, p.set|fieldCurrentCustomer
	return p
}

func (p Patch) WithCurrentOrderType(v models.OrderType) Patch {
	p.state.CurrentOrderType, p.set = v, p.set|fieldCurrentOrderType
	return p
}

func (p Patch) WithActionHistory(v []HistoryEntry) Patch {
	p.state.ActionHistory, p.set = v, p.set|fieldActionHistory
	return p
}

// WithLastAction sets the undo label; nil clears it.
func (p Patch) WithLastAction(v *ActionKind) Patch {
	p.state.LastAction, p.set = v, p.set|fieldLastAction
	return p
}

// Merge overlays other on p; fields set in other win.
func (p Patch) Merge(other Patch) Patch {
	return other.applyTo(p)
}

// Empty reports whether the patch sets no field.
func (p Patch) Empty() bool { return p.set == 0 }

func (p Patch) applyTo(base Patch) Patch {
	base.state = p.apply(base.state)
	base.set |= p.set
	return base
}

func (p Patch) apply(s AppState) AppState {
	if p.set&fieldProducts != 0 {
		s.Products = p.state.Products
	}
	if p.set&fieldOrders != 0 {
		s.Orders = p.state.Orders
	}
	if p.set&fieldCustomers != 0 {
		s.Customers = p.state.Customers
	}
	if p.set&fieldCart != 0 {
		s.Cart = p.state.Cart
	}
	if p.set&fieldCurrentCustomer != 0 {
		s.CurrentCustomer = p.state.CurrentCustomer
	}
	if p.set&fieldCurrentOrderType != 0 {
		s.CurrentOrderType = p.state.CurrentOrderType
	}
	if p.set&fieldActionHistory != 0 {
		s.ActionHistory = p.state.ActionHistory
	}
	if p.set&fieldLastAction != 0 {
		s.LastAction = p.state.LastAction
	}
	return s
}

// FromState builds a patch that sets every field of s.
func FromState(s AppState) Patch {
	return NewPatch().
		WithProducts(s.Products).
		WithOrders(s.Orders).
		WithCustomers(s.Customers).
		WithCart(s.Cart).
		WithCurrentCustomer(s.CurrentCustomer).
		WithCurrentOrderType(s.CurrentOrderType).
		WithActionHistory(s.ActionHistory).
		WithLastAction(s.LastAction)
}
