// Package events tells the kitchen about new orders. A store listener
// spots orders that were not there before and a background worker
// publishes them, so checkout never waits on the broker.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("events")

const (
	queueSize      = 64
	publishTimeout = 5 * time.Second
)

// Publisher sends one message. RabbitPublisher is the production one.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderItem is one kitchen ticket line.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderPlaced is the message body sent for each new order.
type OrderPlaced struct {
	OrderID   string           `json:"order_id"`
	OrderType models.OrderType `json:"order_type"`
	Customer  string           `json:"customer,omitempty"`
	Items     []OrderItem      `json:"items"`
	Total     float64          `json:"total"`
	Terminal  string           `json:"terminal"`
	PlacedAt  time.Time        `json:"placed_at"`
}

// RoutingKey is "kitchen.<order type>".
func (e OrderPlaced) RoutingKey() string {
	return "kitchen." + string(e.OrderType)
}

func newOrderPlaced(o models.Order, terminal string) OrderPlaced {
	e := OrderPlaced{
		OrderID:   o.ID,
		OrderType: o.OrderType,
		Items:     make([]OrderItem, 0, len(o.Items)),
		Total:     o.Total,
		Terminal:  terminal,
		PlacedAt:  o.Timestamp,
	}
	if o.Customer != nil {
		e.Customer = o.Customer.Name
	}
	for _, item := range o.Items {
		e.Items = append(e.Items, OrderItem{Name: item.Name, Quantity: item.Quantity})
	}
	return e
}

// Notifier watches the order list and forwards new orders to a Publisher.
type Notifier struct {
	pub      Publisher
	terminal string

	mu    sync.Mutex
	known map[string]struct{}

	queue chan OrderPlaced
	wg    sync.WaitGroup
}

// NewNotifier treats existing as already announced.
func NewNotifier(pub Publisher, terminal string, existing []models.Order) *Notifier {
	n := &Notifier{
		pub:      pub,
		terminal: terminal,
		known:    map[string]struct{}{},
		queue:    make(chan OrderPlaced, queueSize),
	}
	for _, o := range existing {
		n.known[o.ID] = struct{}{}
	}
	return n
}

// diffOrders returns orders whose id is not in known, and the id set of orders.
func diffOrders(known map[string]struct{}, orders []models.Order) ([]models.Order, map[string]struct{}) {
	next := make(map[string]struct{}, len(orders))
	var added []models.Order
	for _, o := range orders {
		next[o.ID] = struct{}{}
		if _, ok := known[o.ID]; !ok {
			added = append(added, o)
		}
	}
	return added, next
}

// Listen is a state.Listener. It never blocks: when the queue is full the
// event is dropped and logged.
func (n *Notifier) Listen(snapshot state.AppState) error {
	n.mu.Lock()
	added, next := diffOrders(n.known, snapshot.Orders)
	n.known = next
	n.mu.Unlock()

	for _, o := range added {
		select {
		case n.queue <- newOrderPlaced(o, n.terminal):
		default:
			log.Errorf("Event queue full, dropped order %s", o.ID)
		}
	}
	return nil
}

// Start runs the publishing worker until ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-n.queue:
				n.publish(ctx, e)
			}
		}
	}()
}

// Wait blocks until the worker has exited.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) publish(ctx context.Context, e OrderPlaced) {
	body, err := json.Marshal(e)
	if err != nil {
		log.Errorf("Encode order %s: %v", e.OrderID, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := n.pub.Publish(ctx, e.RoutingKey(), body); err != nil {
		log.Errorf("Publish order %s: %v", e.OrderID, err)
		return
	}
	log.Debugf("Order %s sent to %s", e.OrderID, e.RoutingKey())
}
