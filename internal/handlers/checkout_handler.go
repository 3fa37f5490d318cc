package handlers

import (
	"net/http"

	"grillmaster-pos/internal/checkout"
	"grillmaster-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: Price the cart under the current checkout inputs ---
func (h *Handler) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, h.Checkout.Quote())
}

// --- GET: Quick-action buttons ---
func (h *Handler) GetCheckoutPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"percent": checkout.PercentPresets,
		"flat":    checkout.FlatPresets,
		"cash":    checkout.CashPresets,
	})
}

// CheckoutInput edits any subset of the checkout fields.
type CheckoutInput struct {
	DiscountType   *models.DiscountType  `json:"discount_type"`
	DiscountValue  *float64              `json:"discount_value"`
	TaxRate        *float64              `json:"tax_rate"`
	PaymentMethod  *models.PaymentMethod `json:"payment_method"`
	AmountReceived *float64              `json:"amount_received"`
}

// --- PUT: Edit discount, tax or payment ---
func (h *Handler) UpdateCheckout(c *gin.Context) {
	var input CheckoutInput
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Discount: type before value, switching to none zeroes the value
	if input.DiscountType != nil {
		if _, err := h.Checkout.SetDiscountType(*input.DiscountType); err != nil {
			respondError(c, err)
			return
		}
	}
	if input.DiscountValue != nil {
		h.Checkout.SetDiscountValue(*input.DiscountValue)
	}
	// 3. Tax
	if input.TaxRate != nil {
		h.Checkout.SetTaxRate(*input.TaxRate)
	}
	// 4. Payment: method before amount, card and digital clear the amount
	if input.PaymentMethod != nil {
		if _, err := h.Checkout.SetPaymentMethod(*input.PaymentMethod); err != nil {
			respondError(c, err)
			return
		}
	}
	if input.AmountReceived != nil {
		h.Checkout.SetAmountReceived(*input.AmountReceived)
	}
	// 5. Return the new price breakdown
	c.JSON(http.StatusOK, h.Checkout.Quote())
}

type quickActionRequest struct {
	Action string  `json:"action" binding:"required,oneof=percent flat cash exact"`
	Value  float64 `json:"value"`
}

// --- POST: One-tap discount or cash amount ---
func (h *Handler) QuickAction(c *gin.Context) {
	var input quickActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of percent, flat, cash, exact"})
		return
	}

	var quote checkout.Breakdown
	switch input.Action {
	case "percent":
		quote = h.Checkout.ApplyQuickPercent(input.Value)
	case "flat":
		quote = h.Checkout.ApplyQuickFlat(input.Value)
	case "cash":
		quote = h.Checkout.ApplyQuickCash(input.Value)
	case "exact":
		quote = h.Checkout.ApplyExact()
	}
	c.JSON(http.StatusOK, quote)
}

// --- POST: Place the order ---
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	order, err := h.Checkout.Confirm()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// --- DELETE: Back to the default inputs ---
func (h *Handler) ResetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, h.Checkout.Reset())
}
