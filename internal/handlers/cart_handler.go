package handlers

import (
	"net/http"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/selectors"
	"grillmaster-pos/internal/state"

	"github.com/gin-gonic/gin"
)

// CartView is the cart panel: lines, totals and the undo affordance.
type CartView struct {
	Items           []models.CartItem `json:"items"`
	Total           float64           `json:"total"`
	Count           int               `json:"count"`
	CanUndo         bool              `json:"can_undo"`
	LastAction      *state.ActionKind `json:"last_action"`
	CurrentCustomer *models.Customer  `json:"current_customer"`
	OrderType       models.OrderType  `json:"order_type"`
}

func cartView(s state.AppState) CartView {
	return CartView{
		Items:           s.Cart,
		Total:           selectors.CartTotal(s),
		Count:           selectors.CartCount(s),
		CanUndo:         selectors.CanUndo(s),
		LastAction:      s.LastAction,
		CurrentCustomer: s.CurrentCustomer,
		OrderType:       s.CurrentOrderType,
	}
}

func (h *Handler) respondCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(h.Actions.Store().GetState()))
}

// --- GET: Current cart ---
func (h *Handler) GetCart(c *gin.Context) {
	h.respondCart(c)
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// --- POST: Add one unit of a product ---
func (h *Handler) AddToCart(c *gin.Context) {
	var input addToCartRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	product, ok := selectors.ProductByID(h.Actions.Store().GetState(), input.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	h.Actions.AddToCart(product)
	h.respondCart(c)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// --- PUT: Set a line's quantity; zero or less removes it ---
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var input quantityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	h.Actions.UpdateCartQuantity(c.Param("id"), *input.Quantity)
	h.respondCart(c)
}

// --- DELETE: Remove a line ---
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.Actions.RemoveFromCart(c.Param("id"))
	h.respondCart(c)
}

// --- DELETE: Empty the cart ---
func (h *Handler) ClearCart(c *gin.Context) {
	h.Actions.ClearCart()
	h.respondCart(c)
}

// --- POST: Undo the last cart change ---
func (h *Handler) Undo(c *gin.Context) {
	if !h.Actions.UndoLastAction() {
		c.JSON(http.StatusConflict, gin.H{"error": "Nothing to undo"})
		return
	}
	h.respondCart(c)
}

type selectCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

// --- PUT: Choose who the order is for; null clears the selection ---
func (h *Handler) SelectCustomer(c *gin.Context) {
	var input selectCustomerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.CustomerID == nil {
		h.Actions.SetCurrentCustomer(nil)
		h.respondCart(c)
		return
	}
	customer, ok := selectors.CustomerByID(h.Actions.Store().GetState(), *input.CustomerID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	h.Actions.SetCurrentCustomer(&customer)
	h.respondCart(c)
}

type orderTypeRequest struct {
	OrderType models.OrderType `json:"order_type" binding:"required"`
}

// --- PUT: dine-in, takeaway or delivery ---
func (h *Handler) SetOrderType(c *gin.Context) {
	var input orderTypeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_type is required"})
		return
	}
	if err := h.Actions.SetOrderType(input.OrderType); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c)
}
