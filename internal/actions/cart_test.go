package actions

import (
	"testing"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart_SameProductIncrements(t *testing.T) {
	a := newTestActions(t)
	for i := 0; i < 4; i++ {
		a.AddToCart(whopper)
	}

	cart := a.Store().GetState().Cart
	require.Len(t, cart, 1)
	assert.Equal(t, 4, cart[0].Quantity)
	assert.Equal(t, whopper, cart[0].Product)
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(fries)
	a.AddToCart(whopper)
	a.AddToCart(fries)

	cart := a.Store().GetState().Cart
	require.Len(t, cart, 2)
	assert.Equal(t, fries.ID, cart[0].ID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, whopper.ID, cart[1].ID)
}

func TestAddToCart_WithoutIDIsIgnored(t *testing.T) {
	a := newTestActions(t)
	notified := 0
	a.Store().Subscribe(func(state.AppState) error { notified++; return nil })

	a.AddToCart(models.Product{Name: "Mystery"})

	st := a.Store().GetState()
	assert.Empty(t, st.Cart)
	assert.Empty(t, st.ActionHistory)
	assert.Zero(t, notified)
}

func TestAddToCart_RecordsHistory(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)

	st := a.Store().GetState()
	require.Len(t, st.ActionHistory, 1)
	entry, ok := st.ActionHistory[0].(state.AddToCartEntry)
	require.True(t, ok)
	assert.Equal(t, whopper.ID, entry.ProductID)
	assert.Empty(t, entry.PreviousCart)
	assert.Equal(t, fixedNow, entry.RecordedAt())
	require.NotNil(t, st.LastAction)
	assert.Equal(t, state.ActionAddToCart, *st.LastAction)
}

func TestRemoveFromCart(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)
	a.AddToCart(whopper)
	a.AddToCart(fries)

	a.RemoveFromCart(whopper.ID)

	st := a.Store().GetState()
	require.Len(t, st.Cart, 1)
	assert.Equal(t, fries.ID, st.Cart[0].ID)
	assert.Equal(t, state.ActionRemoveFromCart, st.ActionHistory[0].Kind())
}

func TestRemoveFromCart_AbsentRecordsNothing(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)

	a.RemoveFromCart("nope")

	st := a.Store().GetState()
	assert.Len(t, st.Cart, 1)
	assert.Len(t, st.ActionHistory, 1)
}

func TestUpdateCartQuantity_SetsExactly(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)

	a.UpdateCartQuantity(whopper.ID, 7)

	st := a.Store().GetState()
	assert.Equal(t, 7, st.Cart[0].Quantity)
	entry, ok := st.ActionHistory[0].(state.UpdateQuantityEntry)
	require.True(t, ok)
	assert.Equal(t, 1, entry.From)
	assert.Equal(t, 7, entry.To)
}

func TestUpdateCartQuantity_NonPositiveEqualsRemove(t *testing.T) {
	for _, q := range []int{0, -1, -50} {
		viaUpdate := newTestActions(t)
		viaRemove := newTestActions(t)
		for _, a := range []*Actions{viaUpdate, viaRemove} {
			a.AddToCart(whopper)
			a.AddToCart(fries)
		}

		viaUpdate.UpdateCartQuantity(whopper.ID, q)
		viaRemove.RemoveFromCart(whopper.ID)

		u, r := viaUpdate.Store().GetState(), viaRemove.Store().GetState()
		assert.Equal(t, r.Cart, u.Cart, "quantity %d", q)
		assert.Equal(t, len(r.ActionHistory), len(u.ActionHistory))
		assert.Equal(t, *r.LastAction, *u.LastAction)
	}
}

func TestUpdateCartQuantity_AbsentRecordsNothing(t *testing.T) {
	a := newTestActions(t)
	a.UpdateCartQuantity("nope", 3)

	st := a.Store().GetState()
	assert.Empty(t, st.Cart)
	assert.Empty(t, st.ActionHistory)
}

func TestClearCart(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)
	a.AddToCart(fries)

	a.ClearCart()

	st := a.Store().GetState()
	assert.Empty(t, st.Cart)
	entry, ok := st.ActionHistory[0].(state.ClearCartEntry)
	require.True(t, ok)
	assert.Equal(t, 2, entry.ItemCount)
}

func TestHistory_NeverExceedsFive(t *testing.T) {
	a := newTestActions(t)
	for i := 0; i < 12; i++ {
		a.AddToCart(whopper)
		assert.LessOrEqual(t, len(a.Store().GetState().ActionHistory), state.MaxHistory)
	}
}

func TestUndo_EmptyHistoryFails(t *testing.T) {
	a := newTestActions(t)
	assert.False(t, a.UndoLastAction())
}

func TestUndo_RoundTrip(t *testing.T) {
	a := newTestActions(t)
	a.Store().ReplaceState(state.NewPatch().WithCart([]models.CartItem{{Product: cola, Quantity: 2}}))
	before := a.Store().GetState().Cart

	a.AddToCart(whopper)
	a.AddToCart(fries)
	a.UpdateCartQuantity(whopper.ID, 4)
	a.RemoveFromCart(fries.ID)
	a.ClearCart()

	for i := 0; i < 5; i++ {
		require.True(t, a.UndoLastAction(), "undo %d", i)
	}

	st := a.Store().GetState()
	assert.Equal(t, before, st.Cart)
	assert.Empty(t, st.ActionHistory)
	assert.Nil(t, st.LastAction)
	assert.False(t, a.UndoLastAction())
}

func TestUndo_WalksBackOneStepAtATime(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)
	a.AddToCart(whopper)
	a.UpdateCartQuantity(whopper.ID, 5)

	require.True(t, a.UndoLastAction())
	st := a.Store().GetState()
	assert.Equal(t, 2, st.Cart[0].Quantity)
	require.NotNil(t, st.LastAction)
	assert.Equal(t, state.ActionAddToCart, *st.LastAction)

	require.True(t, a.UndoLastAction())
	assert.Equal(t, 1, a.Store().GetState().Cart[0].Quantity)
}

func TestUndo_OldestEvictedCannotBeRecovered(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper) // evicted below
	a.AddToCart(fries)
	a.AddToCart(cola)
	a.AddToCart(fries)
	a.AddToCart(cola)
	a.AddToCart(cola)

	for a.UndoLastAction() {
	}

	cart := a.Store().GetState().Cart
	require.Len(t, cart, 1, "undo stops at the state after the first action")
	assert.Equal(t, whopper.ID, cart[0].ID)
}

func TestUndo_RestoresOnlyCapturedFields(t *testing.T) {
	a := newTestActions(t)
	a.AddToCart(whopper)
	require.NoError(t, a.SetOrderType(models.OrderTypeDelivery))
	_, err := a.AddProduct("Onion Rings", 450, "Sides", "")
	require.NoError(t, err)

	require.True(t, a.UndoLastAction())

	st := a.Store().GetState()
	assert.Empty(t, st.Cart)
	assert.Equal(t, models.OrderTypeDelivery, st.CurrentOrderType)
	assert.Len(t, st.Products, 1)
}
