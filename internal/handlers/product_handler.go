package handlers

import (
	"net/http"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/selectors"

	"github.com/gin-gonic/gin"
)

// --- GET: List the menu, optionally one category (?category=Sides) ---
func (h *Handler) GetProducts(c *gin.Context) {
	category := c.DefaultQuery("category", selectors.AllCategories)
	c.JSON(http.StatusOK, selectors.ProductsByCategory(h.Actions.Store().GetState(), category))
}

// --- GET: Category tabs, "All" first ---
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, selectors.Categories(h.Actions.Store().GetState()))
}

// ProductInput accepts the price as a number or as text ("1650.00").
type ProductInput struct {
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := h.Actions.AddProduct(input.Name, input.Price, input.Category, input.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// --- PUT: Update a product ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	var input actions.ProductUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := h.Actions.UpdateProduct(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- DELETE: Remove a product ---
// Past orders keep their own copy of the product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.Actions.DeleteProduct(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
