// Package data holds the demo catalogue a fresh terminal starts with.
package data

import (
	"time"

	"grillmaster-pos/internal/models"
)

// Customers returns the demo customers, Guest first.
func Customers() []models.Customer {
	return []models.Customer{
		{ID: models.GuestID, Name: "Guest"},
		{ID: "2", Name: "Alice Demo", Phone: "0711234567", Email: "alice@test.com"},
		{ID: "3", Name: "Bob Demo", Phone: "0729876543", Email: "bob@test.com"},
		{ID: "4", Name: "Charlie Demo", Phone: "0735556789"},
		{ID: "5", Name: "Diana Demo", Phone: "0744441234"},
		{ID: "6", Name: "Ethan Demo", Phone: "0753335678"},
		{ID: "7", Name: "Fiona Demo", Phone: "0762224321"},
		{ID: "8", Name: "George Demo", Phone: "0771118765"},
		{ID: "9", Name: "Hannah Demo", Phone: "0780003456"},
		{ID: "10", Name: "Ian Demo", Phone: "0799996543"},
		{ID: "11", Name: "Jane Demo", Phone: "0701237890"},
	}
}

// Products returns the demo menu.
func Products() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Beef Whopper", Price: 2050.85, Category: "Beef Burgers", Image: "🍔"},
		{ID: "2", Name: "Classic Beef", Price: 1650, Category: "Beef Burgers", Image: "🍔"},
		{ID: "3", Name: "Double Beef", Price: 2450, Category: "Beef Burgers", Image: "🍔"},
		{ID: "4", Name: "Bacon Beef", Price: 2250, Category: "Beef Burgers", Image: "🥓"},

		{ID: "5", Name: "Crispy Chicken", Price: 1850, Category: "Chicken Burgers", Image: "🍗"},
		{ID: "6", Name: "Spicy Chicken", Price: 1950, Category: "Chicken Burgers", Image: "🌶️"},
		{ID: "7", Name: "Grilled Chicken", Price: 2050, Category: "Chicken Burgers", Image: "🍗"},

		{ID: "8", Name: "Veggie Burger", Price: 913.56, Category: "Veggie Burger", Image: "🥬"},
		{ID: "9", Name: "Mushroom Burger", Price: 1150, Category: "Veggie Burger", Image: "🍄"},

		{ID: "10", Name: "Thick Cut Fries", Price: 559.32, Category: "Sides", Image: "🍟"},
		{ID: "11", Name: "Onion Rings", Price: 450, Category: "Sides", Image: "🧅"},
		{ID: "12", Name: "Cheese Fries", Price: 650, Category: "Sides", Image: "🧀"},
		{ID: "13", Name: "Coleslaw", Price: 350, Category: "Sides", Image: "🥗"},

		{ID: "14", Name: "Iced Coffee", Price: 593, Category: "Beverages", Image: "☕"},
		{ID: "15", Name: "Coca Cola", Price: 250, Category: "Beverages", Image: "🥤"},
		{ID: "16", Name: "Orange Juice", Price: 350, Category: "Beverages", Image: "🍊"},
		{ID: "17", Name: "Milkshake", Price: 550, Category: "Beverages", Image: "🥛"},

		{ID: "18", Name: "Chocolate Brownie", Price: 450, Category: "Desserts", Image: "🍫"},
		{ID: "19", Name: "Ice Cream Sundae", Price: 550, Category: "Desserts", Image: "🍨"},
		{ID: "20", Name: "Apple Pie", Price: 400, Category: "Desserts", Image: "🥧"},
	}
}

const (
	firstOrderAge  = 100 * time.Second
	secondOrderAge = 50 * time.Second
)

// Orders returns two completed demo orders placed shortly before now.
func Orders(now time.Time) []models.Order {
	products := Products()
	customers := Customers()
	line := func(i, q int) models.CartItem {
		return models.CartItem{Product: products[i], Quantity: q}
	}
	alice, bob := customers[1], customers[2]

	first, second := now.Add(-firstOrderAge), now.Add(-secondOrderAge)
	return []models.Order{
		{
			ID:             orderID(first),
			Items:          []models.CartItem{line(0, 2), line(9, 1)},
			Customer:       &alice,
			OrderType:      models.OrderTypeDineIn,
			Subtotal:       4661.02,
			DiscountType:   models.DiscountNone,
			Total:          4661.02,
			AmountReceived: 5000,
			ChangeDue:      338.98,
			PaymentMethod:  models.PaymentCash,
			PaymentStatus:  models.PaymentStatusPaid,
			Status:         models.OrderStatusCompleted,
			Timestamp:      first,
		},
		{
			ID:             orderID(second),
			Items:          []models.CartItem{line(7, 1), line(13, 2)},
			Customer:       &bob,
			OrderType:      models.OrderTypeTakeaway,
			Subtotal:       2099.56,
			DiscountValue:  100,
			DiscountType:   models.DiscountFlat,
			Total:          1999.56,
			AmountReceived: 2000,
			ChangeDue:      0.44,
			PaymentMethod:  models.PaymentCard,
			PaymentStatus:  models.PaymentStatusPaid,
			Status:         models.OrderStatusCompleted,
			Timestamp:      second,
		},
	}
}

func orderID(t time.Time) string {
	return "demo-" + t.UTC().Format("20060102150405")
}
