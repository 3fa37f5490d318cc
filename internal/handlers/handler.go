package handlers

import (
	"errors"
	"net/http"
	"time"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/ai"
	"grillmaster-pos/internal/auth"
	"grillmaster-pos/internal/checkout"
	"grillmaster-pos/internal/database"
	"grillmaster-pos/internal/middleware"
	"grillmaster-pos/internal/persistence"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("handlers")

// Handler serves the terminal's HTTP API on top of one store.
type Handler struct {
	Actions           *actions.Actions
	Checkout          *checkout.Engine
	Persister         *persistence.Persister
	Users             *database.Users
	Signer            *auth.Signer
	Agent             *ai.Agent
	TerminalID        string
	AllowRegistration bool
	Now               func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Routes mounts every endpoint on r.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	r.GET("/api/system/status", h.GetSystemStatus)

	// Only opens if we explicitly allow it in the config
	if h.AllowRegistration {
		r.POST("/register", h.Register)
		log.Warning("Registration route is OPEN. Disable this in production!")
	} else {
		log.Info("Registration route is disabled")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Signer))
	{
		// STAFF & ADMIN
		api.GET("/products", h.GetProducts)
		api.GET("/categories", h.GetCategories)

		api.GET("/cart", h.GetCart)
		api.POST("/cart", h.AddToCart)
		api.PUT("/cart/:id", h.UpdateCartItem)
		api.DELETE("/cart/:id", h.RemoveFromCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/undo", h.Undo)
		api.PUT("/cart/customer", h.SelectCustomer)
		api.PUT("/cart/order-type", h.SetOrderType)

		api.GET("/customers", h.GetCustomers)
		api.POST("/customers", h.AddCustomer)
		api.PUT("/customers/:id", h.UpdateCustomer)

		api.GET("/orders", h.GetOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id", h.UpdateOrder)
		api.POST("/orders/:id/pay", h.MarkOrderPaid)

		api.GET("/checkout", h.GetCheckout)
		api.GET("/checkout/presets", h.GetCheckoutPresets)
		api.PUT("/checkout", h.UpdateCheckout)
		api.POST("/checkout/quick", h.QuickAction)
		api.POST("/checkout/confirm", h.ConfirmCheckout)
		api.DELETE("/checkout", h.ResetCheckout)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/ask", h.AskAI)

			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.DELETE("/customers/:id", h.DeleteCustomer)
			admin.DELETE("/orders/:id", h.DeleteOrder)

			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/sales", h.GetSalesRange)
			admin.GET("/reports/categories", h.GetCategorySales)
			admin.GET("/reports/export", h.ExportWorkbook)

			admin.POST("/system/reset-demo", h.ResetDemo)
		}
	}
}

// respondError maps action errors onto status codes. Anything that is not a
// validation or lookup failure is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, actions.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, actions.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
