package actions

import (
	"errors"
	"testing"

	"grillmaster-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct_ParsesPriceFromTextOrNumber(t *testing.T) {
	for _, price := range []any{"1650", " 1650.00 ", 1650, 1650.0} {
		a := newTestActions(t)
		p, err := a.AddProduct(" Classic Beef ", price, " Beef Burgers ", "")
		require.NoError(t, err, "price %#v", price)

		assert.Equal(t, models.Product{
			ID:       "id-1",
			Name:     "Classic Beef",
			Price:    1650,
			Category: "Beef Burgers",
			Image:    DefaultProductImage,
		}, p)
	}
}

func TestAddProduct_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		pname    string
		price    any
		category string
	}{
		{"empty name", " ", 10, "Sides"},
		{"empty category", "Fries", 10, ""},
		{"negative price", "Fries", -1, "Sides"},
		{"text price", "Fries", "ten", "Sides"},
		{"missing price", "Fries", nil, "Sides"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestActions(t)
			_, err := a.AddProduct(tt.pname, tt.price, tt.category, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.EqualError(t, err, "Invalid product data")
			assert.Empty(t, a.Store().GetState().Products)
		})
	}
}

func TestAddProduct_FieldRules(t *testing.T) {
	a := newTestActions(t)
	_, err := a.AddProduct("Ab", 10, "Sides", "")
	assert.EqualError(t, err, "Name must be at least 3 characters")
	_, err = a.AddProduct("Gold Burger", 2000000, "Specials", "")
	assert.EqualError(t, err, "Price cannot exceed 1000000")
}

func TestUpdateProduct_AppliesOnlyValidFields(t *testing.T) {
	a := newTestActions(t)
	p, err := a.AddProduct("Onion Rings", 450, "Sides", "🧅")
	require.NoError(t, err)

	got, err := a.UpdateProduct(p.ID, ProductUpdate{
		Name:     ptr("  "),
		Price:    "-5",
		Category: ptr(" Starters "),
	})
	require.NoError(t, err)

	assert.Equal(t, "Onion Rings", got.Name)
	assert.Equal(t, 450.0, got.Price)
	assert.Equal(t, "Starters", got.Category)
	assert.Equal(t, "🧅", got.Image)

	got, err = a.UpdateProduct(p.ID, ProductUpdate{Price: "0"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Price, "zero is a valid price")
	assert.Equal(t, got, a.Store().GetState().Products[0])
}

func TestUpdateProduct_NotFound(t *testing.T) {
	a := newTestActions(t)
	_, err := a.UpdateProduct("ghost", ProductUpdate{Name: ptr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "Product not found")
}

func TestDeleteProduct_OrdersKeepSnapshot(t *testing.T) {
	a := newTestActions(t)
	p, err := a.AddProduct("Onion Rings", 450, "Sides", "")
	require.NoError(t, err)
	a.AddToCart(p)
	order, err := a.PlaceOrder(models.PaymentCash, PlaceOrderOptions{Subtotal: 450})
	require.NoError(t, err)

	a.DeleteProduct(p.ID)
	a.DeleteProduct("ghost")

	st := a.Store().GetState()
	assert.Empty(t, st.Products)
	require.Len(t, st.Orders, 1)
	assert.Equal(t, order.Items, st.Orders[0].Items)
	assert.Equal(t, "Onion Rings", st.Orders[0].Items[0].Name)
}
