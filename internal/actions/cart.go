package actions

import (
	"slices"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
)

func cartIndex(cart []models.CartItem, productID string) int {
	return slices.IndexFunc(cart, func(i models.CartItem) bool { return i.ID == productID })
}

func (a *Actions) snapshot(cart []models.CartItem) state.CartSnapshot {
	return state.CartSnapshot{PreviousCart: slices.Clone(cart), At: a.now()}
}

// AddToCart adds one unit of product. A product already in the cart has its
// quantity bumped instead of getting a second line. Products without an id
// are ignored.
func (a *Actions) AddToCart(product models.Product) {
	if product.ID == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	cart := slices.Clone(current.Cart)
	if i := cartIndex(cart, product.ID); i >= 0 {
		cart[i].Quantity++
	} else {
		cart = append(cart, models.CartItem{Product: product, Quantity: 1})
	}

	entry := state.AddToCartEntry{
		CartSnapshot: a.snapshot(current.Cart),
		ProductID:    product.ID,
		ProductName:  product.Name,
	}
	a.store.ReplaceState(a.record(current, state.NewPatch().WithCart(cart), entry))
}

// RemoveFromCart drops the whole line for productID. Nothing is recorded for
// undo when the product was not in the cart.
func (a *Actions) RemoveFromCart(productID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeFromCart(productID)
}

func (a *Actions) removeFromCart(productID string) {
	current := a.store.GetState()
	i := cartIndex(current.Cart, productID)
	cart := slices.DeleteFunc(slices.Clone(current.Cart), func(it models.CartItem) bool { return it.ID == productID })

	change := state.NewPatch().WithCart(cart)
	if i >= 0 {
		change = a.record(current, change, state.RemoveFromCartEntry{
			CartSnapshot: a.snapshot(current.Cart),
			ProductID:    productID,
			ProductName:  current.Cart[i].Name,
		})
	}
	a.store.ReplaceState(change)
}

// UpdateCartQuantity sets the quantity of productID exactly. A quantity of
// zero or less removes the line.
func (a *Actions) UpdateCartQuantity(productID string, quantity int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if quantity <= 0 {
		a.removeFromCart(productID)
		return
	}

	current := a.store.GetState()
	i := cartIndex(current.Cart, productID)
	cart := slices.Clone(current.Cart)
	if i >= 0 {
		cart[i].Quantity = quantity
	}
	change := state.NewPatch().WithCart(cart)
	if i >= 0 {
		change = a.record(current, change, state.UpdateQuantityEntry{
			CartSnapshot: a.snapshot(current.Cart),
			ProductID:    productID,
			ProductName:  current.Cart[i].Name,
			From:         current.Cart[i].Quantity,
			To:           quantity,
		})
	}
	a.store.ReplaceState(change)
}

// ClearCart empties the cart.
func (a *Actions) ClearCart() {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	entry := state.ClearCartEntry{
		CartSnapshot: a.snapshot(current.Cart),
		ItemCount:    len(current.Cart),
	}
	a.store.ReplaceState(a.record(current, state.NewPatch().WithCart([]models.CartItem{}), entry))
}

// UndoLastAction reverts the most recent recorded action. It restores only
// what that action captured and reports false when there is nothing to undo.
func (a *Actions) UndoLastAction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	if len(current.ActionHistory) == 0 {
		return false
	}

	last := current.ActionHistory[0]
	remaining := slices.Clone(current.ActionHistory[1:])
	var top state.HistoryEntry
	if len(remaining) > 0 {
		top = remaining[0]
	}

	a.store.ReplaceState(last.Restore().Merge(state.NewPatch().
		WithActionHistory(remaining).
		WithLastAction(state.KindOf(top))))
	return true
}
