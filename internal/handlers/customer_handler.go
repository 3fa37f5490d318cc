package handlers

import (
	"net/http"

	"grillmaster-pos/internal/actions"

	"github.com/gin-gonic/gin"
)

// --- GET: All customers, Guest included ---
func (h *Handler) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Actions.Store().GetState().Customers)
}

type CustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// --- POST: Register a customer at the till ---
func (h *Handler) AddCustomer(c *gin.Context) {
	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer, err := h.Actions.AddCustomer(input.Name, input.Phone, input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// --- PUT: Edit a customer ---
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var input actions.CustomerUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer, err := h.Actions.UpdateCustomer(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// --- DELETE: Remove a customer ---
func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.Actions.DeleteCustomer(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
