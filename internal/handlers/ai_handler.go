package handlers

import (
	"errors"
	"net/http"

	"grillmaster-pos/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	// 1. Check the assistant is configured
	if h.Agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrNoAPIKey.Error()})
		return
	}

	// 2. Run the AI Agent
	response, err := h.Agent.Ask(c.Request.Context(), req.Message)
	if errors.Is(err, ai.ErrNoAPIKey) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Errorf("Assistant failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// 3. Return the Answer
	c.JSON(http.StatusOK, gin.H{"reply": response})
}
