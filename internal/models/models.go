package models

import (
	"time"
)

// GuestID is the reserved id of the walk-in customer record.
const GuestID = "0"

// LegacyGuestID is the id older saves used for the Guest record.
const LegacyGuestID = "1"

// IsGuestID reports whether id belongs to the Guest sentinel.
func IsGuestID(id string) bool {
	return id == GuestID || id == LegacyGuestID
}

// User - A staff member who can log into the terminal
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - A menu item
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// Customer - A known patron (or the Guest sentinel)
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CartItem - A product line in the cart
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountNone, DiscountPercent, DiscountFlat:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentDigital PaymentMethod = "digital"
	PaymentUnpaid  PaymentMethod = "unpaid"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentDigital, PaymentUnpaid:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

type OrderStatus string

const (
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order - The transaction snapshot taken at checkout
type Order struct {
	ID             string        `json:"id"`
	Items          []CartItem    `json:"items"` // Snapshot of the cart, not references
	Customer       *Customer     `json:"customer"`
	OrderType      OrderType     `json:"order_type"`
	Subtotal       float64       `json:"subtotal"`
	DiscountValue  float64       `json:"discount_value"`
	DiscountType   DiscountType  `json:"discount_type"`
	TaxRate        float64       `json:"tax_rate"`
	TaxAmount      float64       `json:"tax_amount"`
	Total          float64       `json:"total"`
	AmountReceived float64       `json:"amount_received"`
	ChangeDue      float64       `json:"change_due"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Status         OrderStatus   `json:"status"`
	Timestamp      time.Time     `json:"timestamp"`
}
