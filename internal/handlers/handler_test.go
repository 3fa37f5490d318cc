package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/ai"
	"grillmaster-pos/internal/auth"
	"grillmaster-pos/internal/checkout"
	"grillmaster-pos/internal/data"
	"grillmaster-pos/internal/database"
	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/persistence"
	"grillmaster-pos/internal/selectors"
	"grillmaster-pos/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router  *gin.Engine
	handler *Handler
	admin   string
	cashier string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := state.Initial()
	s.Products = data.Products()
	s.Customers = data.Customers()
	s.Orders = data.Orders(now)
	guest := s.Customers[0]
	s.CurrentCustomer = &guest
	store := state.New(s)
	a := actions.New(store, actions.WithClock(func() time.Time { return now }))

	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	signer, err := auth.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	h := &Handler{
		Actions:           a,
		Checkout:          checkout.New(a, func() float64 { return selectors.CartTotal(store.GetState()) }, checkout.DefaultTaxRate),
		Persister:         persistence.NewPersister(persistence.NewMemory(), persistence.Options{SeedDemo: true}),
		Users:             database.NewUsers(db),
		Signer:            signer,
		Agent:             ai.NewAgent("", a),
		TerminalID:        "POS-TEST",
		AllowRegistration: true,
		Now:               func() time.Time { return now },
	}
	r := gin.New()
	h.Routes(r)

	admin, err := signer.GenerateToken(1, auth.RoleAdmin)
	require.NoError(t, err)
	cashier, err := signer.GenerateToken(2, auth.RoleCashier)
	require.NoError(t, err)
	return &testServer{router: r, handler: h, admin: admin, cashier: cashier}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["error"]
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/system/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POS-TEST", decode[map[string]string](t, w)["terminal_id"])
}

func TestAPI_RequiresToken(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/products", "", nil).Code)
}

func TestAPI_AdminRoutesRejectCashier(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodPost, "/api/products", ts.cashier, gin.H{"name": "Halloumi", "price": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/api/reports", ts.cashier, nil).Code)
}

func TestProducts(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/products", ts.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 20)

	w = ts.do(http.MethodGet, "/api/products?category=Sides", ts.cashier, nil)
	assert.Len(t, decode[[]models.Product](t, w), 4)

	w = ts.do(http.MethodGet, "/api/categories", ts.cashier, nil)
	cats := decode[[]string](t, w)
	require.Len(t, cats, 7)
	assert.Equal(t, selectors.AllCategories, cats[0])
}

func TestAddProduct_PriceAsText(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/products", ts.admin, gin.H{"name": "Halloumi Burger", "price": " 1650.00 ", "category": "Veggie Burger"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Product](t, w)
	assert.Equal(t, 1650.0, p.Price)
	assert.Equal(t, actions.DefaultProductImage, p.Image)

	w = ts.do(http.MethodPost, "/api/products", ts.admin, gin.H{"name": "Halloumi Burger", "price": "free", "category": "Veggie Burger"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid product data", errorOf(t, w))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPut, "/api/products/15", ts.admin, gin.H{"price": 300})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 300.0, decode[models.Product](t, w).Price)

	w = ts.do(http.MethodPut, "/api/products/999", ts.admin, gin.H{"price": 300})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", errorOf(t, w))

	w = ts.do(http.MethodDelete, "/api/products/15", ts.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ts.handler.Actions.Store().GetState().Products, 19)
}

func TestCartFlow(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "2"})
	w := ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[CartView](t, w)
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, 3300.0, cart.Total)
	assert.True(t, cart.CanUndo)
	require.NotNil(t, cart.LastAction)
	assert.Equal(t, state.ActionAddToCart, *cart.LastAction)

	w = ts.do(http.MethodPost, "/api/cart/undo", ts.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[CartView](t, w).Count)

	w = ts.do(http.MethodPut, "/api/cart/2", ts.cashier, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[CartView](t, w).Items)

	w = ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "999"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUndo_NothingToUndo(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusConflict, ts.do(http.MethodPost, "/api/cart/undo", ts.cashier, nil).Code)
}

func TestSelectCustomerAndOrderType(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPut, "/api/cart/customer", ts.cashier, gin.H{"customer_id": "3"})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[CartView](t, w)
	require.NotNil(t, cart.CurrentCustomer)
	assert.Equal(t, "Bob Demo", cart.CurrentCustomer.Name)

	w = ts.do(http.MethodPut, "/api/cart/customer", ts.cashier, gin.H{"customer_id": nil})
	assert.Nil(t, decode[CartView](t, w).CurrentCustomer)

	w = ts.do(http.MethodPut, "/api/cart/order-type", ts.cashier, gin.H{"order_type": "delivery"})
	assert.Equal(t, models.OrderTypeDelivery, decode[CartView](t, w).OrderType)

	w = ts.do(http.MethodPut, "/api/cart/order-type", ts.cashier, gin.H{"order_type": "drive-thru"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid order type", errorOf(t, w))
}

func TestCustomers(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/customers", ts.cashier, gin.H{"name": "  Kim  ", "phone": "0711234567"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Phone number already exists", errorOf(t, w))

	w = ts.do(http.MethodPost, "/api/customers", ts.cashier, gin.H{"name": "  Kim  ", "phone": "0700000000"})
	require.Equal(t, http.StatusCreated, w.Code)
	kim := decode[models.Customer](t, w)
	assert.Equal(t, "Kim", kim.Name)

	w = ts.do(http.MethodPut, "/api/customers/"+kim.ID, ts.cashier, gin.H{"email": "kim@test.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kim@test.com", decode[models.Customer](t, w).Email)

	w = ts.do(http.MethodDelete, "/api/customers/"+models.GuestID, ts.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete Guest customer", errorOf(t, w))

	w = ts.do(http.MethodDelete, "/api/customers/"+kim.ID, ts.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(http.MethodDelete, "/api/customers/"+kim.ID, ts.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/customers", ts.cashier, nil)
	assert.Len(t, decode[[]models.Customer](t, w), 11)
}

func TestCheckoutFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "2"})

	w := ts.do(http.MethodGet, "/api/checkout", ts.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[checkout.Breakdown](t, w)
	assert.Equal(t, 1650.0, quote.Subtotal)
	assert.InDelta(t, 1897.5, quote.GrandTotal, 1e-9)
	assert.False(t, quote.CanConfirm)

	w = ts.do(http.MethodPost, "/api/checkout/confirm", ts.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient cash received", errorOf(t, w))

	w = ts.do(http.MethodPut, "/api/checkout", ts.cashier, gin.H{"discount_type": "flat", "discount_value": 150, "amount_received": 2000})
	require.Equal(t, http.StatusOK, w.Code)
	quote = decode[checkout.Breakdown](t, w)
	assert.InDelta(t, 1725.0, quote.GrandTotal, 1e-9)
	assert.InDelta(t, 275.0, quote.ChangeDue, 1e-9)
	assert.True(t, quote.CanConfirm)

	w = ts.do(http.MethodPost, "/api/checkout/confirm", ts.cashier, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, w)
	assert.InDelta(t, 1725.0, order.Total, 1e-9)
	assert.Equal(t, 150.0, order.DiscountValue)
	assert.Equal(t, 2000.0, order.AmountReceived)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	s := ts.handler.Actions.Store().GetState()
	assert.Empty(t, s.Cart)
	assert.Len(t, s.Orders, 3)

	w = ts.do(http.MethodGet, "/api/checkout", ts.cashier, nil)
	assert.Equal(t, models.DiscountNone, decode[checkout.Breakdown](t, w).DiscountType)
}

func TestCheckoutQuickActions(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "2"})

	w := ts.do(http.MethodPost, "/api/checkout/quick", ts.cashier, gin.H{"action": "exact"})
	require.Equal(t, http.StatusOK, w.Code)
	quote := decode[checkout.Breakdown](t, w)
	assert.Equal(t, quote.GrandTotal, quote.AmountReceived)
	assert.True(t, quote.CanConfirm)

	w = ts.do(http.MethodPost, "/api/checkout/quick", ts.cashier, gin.H{"action": "percent", "value": 10})
	assert.Equal(t, models.DiscountPercent, decode[checkout.Breakdown](t, w).DiscountType)

	w = ts.do(http.MethodPost, "/api/checkout/quick", ts.cashier, gin.H{"action": "tip", "value": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/checkout", ts.cashier, gin.H{"payment_method": "crypto"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodDelete, "/api/checkout", ts.cashier, nil)
	quote = decode[checkout.Breakdown](t, w)
	assert.Equal(t, models.PaymentCash, quote.PaymentMethod)
	assert.Zero(t, quote.AmountReceived)

	w = ts.do(http.MethodGet, "/api/checkout/presets", ts.cashier, nil)
	assert.Equal(t, []float64{5, 10, 15, 20}, decode[map[string][]float64](t, w)["percent"])
}

func TestOrders(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/orders", ts.cashier, nil)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Timestamp.After(orders[1].Timestamp), "newest first")
	id := orders[0].ID

	w = ts.do(http.MethodGet, "/api/orders/"+id, ts.cashier, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/orders/nope", ts.cashier, nil).Code)

	w = ts.do(http.MethodPut, "/api/orders/"+id, ts.cashier, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusCompleted, decode[models.Order](t, w).Status)

	w = ts.do(http.MethodPut, "/api/orders/"+id, ts.cashier, gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/orders/"+id+"/pay", ts.cashier, gin.H{"amount": 5000})
	require.Equal(t, http.StatusOK, w.Code)
	paid := decode[models.Order](t, w)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.InDelta(t, 5000-paid.Total, paid.ChangeDue, 1e-9)

	w = ts.do(http.MethodPost, "/api/orders/"+id+"/pay", ts.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[models.Order](t, w).ChangeDue)

	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodDelete, "/api/orders/"+id, ts.cashier, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/api/orders/"+id, ts.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodDelete, "/api/orders/"+id, ts.admin, nil).Code)
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/reports?limit=1", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[ReportData](t, w)
	assert.Equal(t, 2, report.Stats.Today)
	assert.Len(t, report.TopSelling, 1)

	w = ts.do(http.MethodGet, "/api/reports/sales?start=2026-03-14&end=2026-03-14", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[selectors.SalesReport](t, w).Count)

	w = ts.do(http.MethodGet, "/api/reports/sales?start=2026-03-15&end=2026-03-20", ts.admin, nil)
	assert.Zero(t, decode[selectors.SalesReport](t, w).Count)

	w = ts.do(http.MethodGet, "/api/reports/sales?start=14/03/2026&end=2026-03-14", ts.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/reports/categories", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[selectors.CategoryBreakdown](t, w).Categories)
}

func TestExportWorkbook(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/api/reports/export", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales-2026-03-14.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestAskAI_WithoutKey(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodPost, "/api/ask", ts.admin, gin.H{"message": "What sold best?"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = ts.do(http.MethodPost, "/api/ask", ts.admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	creds := gin.H{"username": "owner", "password": "s3cret"}

	w := ts.do(http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, auth.RoleAdmin, decode[map[string]string](t, w)["role"])

	w = ts.do(http.MethodPost, "/register", "", gin.H{"username": "till1", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, auth.RoleCashier, decode[map[string]string](t, w)["role"])

	w = ts.do(http.MethodPost, "/register", "", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/reports", token, nil).Code)

	w = ts.do(http.MethodPost, "/login", "", gin.H{"username": "owner", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.do(http.MethodPost, "/login", "", gin.H{"username": "ghost", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_ClosedByDefault(t *testing.T) {
	ts := newTestServer(t)
	ts.handler.AllowRegistration = false
	r := gin.New()
	ts.handler.Routes(r)
	ts.router = r

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/register", "", gin.H{"username": "a", "password": "b"}).Code)
}

func TestResetDemo(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodPost, "/api/cart", ts.cashier, gin.H{"product_id": "2"})
	ts.do(http.MethodDelete, "/api/products/1", ts.admin, nil)

	w := ts.do(http.MethodPost, "/api/system/reset-demo", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	s := ts.handler.Actions.Store().GetState()
	assert.Len(t, s.Products, 20)
	assert.Empty(t, s.Cart)
	assert.Empty(t, s.ActionHistory)
	require.NotNil(t, s.CurrentCustomer)
	assert.Equal(t, models.GuestID, s.CurrentCustomer.ID)
}
