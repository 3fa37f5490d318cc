package persistence

import (
	"time"

	"grillmaster-pos/internal/data"
	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
)

// Options controls which parts of the state survive a restart.
type Options struct {
	// Prefix namespaces every key, e.g. "grillmaster" -> "grillmaster_orders".
	Prefix string
	// PersistCart keeps the open cart across restarts.
	PersistCart bool
	// SeedDemo fills empty collections with the demo catalogue on load.
	SeedDemo bool
}

// Keys are the storage keys for each persisted collection.
type Keys struct {
	Products        string
	Orders          string
	Customers       string
	Cart            string
	CurrentCustomer string
	OrderType       string
}

func keysFor(prefix string) Keys {
	if prefix == "" {
		prefix = "grillmaster"
	}
	return Keys{
		Products:        prefix + "_products",
		Orders:          prefix + "_orders",
		Customers:       prefix + "_customers",
		Cart:            prefix + "_cart",
		CurrentCustomer: prefix + "_current_customer",
		OrderType:       prefix + "_order_type",
	}
}

// Persister maps AppState onto storage keys. Undo history and the last
// action are session-local and never written.
type Persister struct {
	adapter *Adapter
	opts    Options
	keys    Keys
	now     func() time.Time
}

func NewPersister(b Backend, opts Options) *Persister {
	return &Persister{
		adapter: NewAdapter(b),
		opts:    opts,
		keys:    keysFor(opts.Prefix),
		now:     time.Now,
	}
}

func (p *Persister) Keys() Keys {
	return p.keys
}

// Save writes every persisted collection and reports whether all of them
// were stored.
func (p *Persister) Save(s state.AppState) bool {
	ok := p.adapter.Save(p.keys.Products, s.Products)
	ok = p.adapter.Save(p.keys.Orders, s.Orders) && ok
	ok = p.adapter.Save(p.keys.Customers, s.Customers) && ok
	if p.opts.PersistCart {
		ok = p.adapter.Save(p.keys.Cart, s.Cart) && ok
	}
	ok = p.adapter.Save(p.keys.CurrentCustomer, s.CurrentCustomer) && ok
	ok = p.adapter.Save(p.keys.OrderType, s.CurrentOrderType) && ok
	return ok
}

// Load builds the boot state. Collections that come back empty are
// replaced by demo data when SeedDemo is set.
func (p *Persister) Load() state.AppState {
	s := state.Initial()

	s.Products = Load(p.adapter, p.keys.Products, []models.Product{})
	s.Orders = Load(p.adapter, p.keys.Orders, []models.Order{})
	s.Customers = Load(p.adapter, p.keys.Customers, []models.Customer{})
	if p.opts.SeedDemo {
		if len(s.Products) == 0 {
			s.Products = data.Products()
		}
		if len(s.Orders) == 0 {
			s.Orders = data.Orders(p.now())
		}
		if len(s.Customers) == 0 {
			s.Customers = data.Customers()
		}
	}

	if p.opts.PersistCart {
		s.Cart = Load(p.adapter, p.keys.Cart, []models.CartItem{})
	}
	s.CurrentCustomer = Load[*models.Customer](p.adapter, p.keys.CurrentCustomer, nil)
	if t := Load(p.adapter, p.keys.OrderType, models.OrderTypeDineIn); t.Valid() {
		s.CurrentOrderType = t
	}

	s.Products = nonNil(s.Products)
	s.Orders = nonNil(s.Orders)
	s.Customers = nonNil(s.Customers)
	s.Cart = nonNil(s.Cart)

	log.Infof("State loaded: %d products, %d orders, %d customers", len(s.Products), len(s.Orders), len(s.Customers))
	return s
}

// nonNil turns a stored JSON null back into an empty collection.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ResetToDemo replaces the catalogue, history and customers in store with
// the demo data, empties the cart and saves the result.
func (p *Persister) ResetToDemo(store *state.Store) bool {
	guest := data.Customers()[0]
	store.ReplaceState(state.NewPatch().
		WithProducts(data.Products()).
		WithOrders(data.Orders(p.now())).
		WithCustomers(data.Customers()).
		WithCart([]models.CartItem{}).
		WithCurrentCustomer(&guest).
		WithCurrentOrderType(models.OrderTypeDineIn).
		WithActionHistory([]state.HistoryEntry{}).
		WithLastAction(nil))
	log.Info("State reset to demo data")
	return p.Save(store.GetState())
}
