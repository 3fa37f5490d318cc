package actions

import (
	"fmt"
	"testing"
	"time"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
)

var fixedNow = time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

func newTestActions(t *testing.T) *Actions {
	t.Helper()
	n := 0
	return New(state.New(state.Initial()),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
}

var (
	whopper = models.Product{ID: "1", Name: "Beef Whopper", Price: 2050.85, Category: "Beef Burgers", Image: "🍔"}
	fries   = models.Product{ID: "10", Name: "Thick Cut Fries", Price: 559.32, Category: "Sides", Image: "🍟"}
	cola    = models.Product{ID: "15", Name: "Coca Cola", Price: 250, Category: "Beverages", Image: "🥤"}
)

func guest() models.Customer {
	return models.Customer{ID: models.GuestID, Name: "Guest"}
}

func seedCustomers(a *Actions, customers ...models.Customer) {
	a.store.ReplaceState(state.NewPatch().WithCustomers(customers))
}

func ptr[T any](v T) *T { return &v }
