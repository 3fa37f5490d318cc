package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- GET: Which terminal is this ---
func (h *Handler) GetSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "online",
		"terminal_id": h.TerminalID,
	})
}

// --- POST: Wipe the catalogue, customers and orders back to the demo set ---
func (h *Handler) ResetDemo(c *gin.Context) {
	ok := h.Persister.ResetToDemo(h.Actions.Store())
	h.Checkout.Reset()
	if !ok {
		// The store already holds the demo data; only the write failed.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Demo data loaded but could not be saved"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demo data restored"})
}
