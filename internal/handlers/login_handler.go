package handlers

import (
	"errors"
	"net/http"

	"grillmaster-pos/internal/auth"
	"grillmaster-pos/internal/database"
	"grillmaster-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Find User in DB
	user, err := h.Users.FindByUsername(input.Username)
	if err != nil {
		if !errors.Is(err, database.ErrUserNotFound) {
			log.Errorf("Login lookup failed: %v", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	// 3. Verify Password (Bcrypt)
	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 4. Generate JWT Token
	token, err := h.Signer.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// 5. Return Token and Role
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
	})
}

// Register creates a staff account. The first account on a fresh database
// is the admin; every later one is a cashier.
func (h *Handler) Register(c *gin.Context) {
	var input LoginRequest

	// 1. Parse JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Hash the Password
	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. Pick the Role: the first account runs the shop
	count, err := h.Users.Count()
	if err != nil {
		log.Errorf("Counting users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	role := auth.RoleCashier
	if count == 0 {
		role = auth.RoleAdmin
	}

	// 4. Save to DB
	user := models.User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := h.Users.Create(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User likely already exists"})
		return
	}

	log.Infof("User %s registered as %s", user.Username, user.Role)
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!", "role": user.Role})
}
