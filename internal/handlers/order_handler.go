package handlers

import (
	"net/http"
	"slices"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/selectors"

	"github.com/gin-gonic/gin"
)

// --- GET: Order history, newest first ---
func (h *Handler) GetOrders(c *gin.Context) {
	orders := h.Actions.Store().GetState().Orders
	slices.Reverse(orders)
	c.JSON(http.StatusOK, orders)
}

// --- GET: One order ---
func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := selectors.OrderByID(h.Actions.Store().GetState(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- PUT: Change status or payment details of a placed order ---
func (h *Handler) UpdateOrder(c *gin.Context) {
	var input actions.OrderUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	order, err := h.Actions.UpdateOrder(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- DELETE: Remove an order ---
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.Actions.DeleteOrder(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

type payRequest struct {
	// Amount defaults to the order total when omitted.
	Amount *float64 `json:"amount"`
}

// --- POST: Settle an unpaid order ---
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	var input payRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	order, err := h.Actions.MarkOrderPaid(c.Param("id"), input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
