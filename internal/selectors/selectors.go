// Package selectors derives read-only views from a state snapshot.
// Nothing here mutates the snapshot it is given.
package selectors

import (
	"cmp"
	"slices"
	"time"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
)

// AllCategories is the pseudo-category the menu filter uses for "no filter".
const AllCategories = "All"

const defaultTopLimit = 5

// CartTotal is the sum of price times quantity over the cart.
func CartTotal(s state.AppState) float64 {
	var total float64
	for _, item := range s.Cart {
		total += item.LineTotal()
	}
	return total
}

// CartCount is the number of units in the cart, not the number of lines.
func CartCount(s state.AppState) int {
	var n int
	for _, item := range s.Cart {
		n += item.Quantity
	}
	return n
}

func CartItem(s state.AppState, productID string) (models.CartItem, bool) {
	return find(s.Cart, func(i models.CartItem) bool { return i.ID == productID })
}

func ProductByID(s state.AppState, id string) (models.Product, bool) {
	return find(s.Products, func(p models.Product) bool { return p.ID == id })
}

func OrderByID(s state.AppState, id string) (models.Order, bool) {
	return find(s.Orders, func(o models.Order) bool { return o.ID == id })
}

func CustomerByID(s state.AppState, id string) (models.Customer, bool) {
	return find(s.Customers, func(c models.Customer) bool { return c.ID == id })
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// OrderStats feeds the dashboard tiles.
type OrderStats struct {
	Total        int     `json:"total"`
	Today        int     `json:"today"`
	Revenue      float64 `json:"revenue"`
	TodayRevenue float64 `json:"today_revenue"`
}

// Stats counts orders and revenue overall and for the calendar day of now,
// in now's location.
func Stats(s state.AppState, now time.Time) OrderStats {
	y, m, d := now.Date()
	stats := OrderStats{Total: len(s.Orders)}
	for _, o := range s.Orders {
		stats.Revenue += o.Total
		oy, om, od := o.Timestamp.In(now.Location()).Date()
		if oy == y && om == m && od == d {
			stats.Today++
			stats.TodayRevenue += o.Total
		}
	}
	return stats
}

// ProductsByCategory filters the menu. An empty category or "All" returns
// every product.
func ProductsByCategory(s state.AppState, category string) []models.Product {
	if category == "" || category == AllCategories {
		return s.Products
	}
	out := []models.Product{}
	for _, p := range s.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns each product category once, sorted.
func Categories(s state.AppState) []string {
	out := make([]string, 0, len(s.Products))
	for _, p := range s.Products {
		out = append(out, p.Category)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ProductSales aggregates one product across order history.
type ProductSales struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// TopProducts ranks products by units sold. limit <= 0 means 5.
// Ties keep the order in which products were first sold.
func TopProducts(s state.AppState, limit int) []ProductSales {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	index := map[string]int{}
	ranked := []ProductSales{}
	for _, o := range s.Orders {
		for _, item := range o.Items {
			i, ok := index[item.ID]
			if !ok {
				i = len(ranked)
				index[item.ID] = i
				ranked = append(ranked, ProductSales{ID: item.ID, Name: item.Name, Image: item.Image})
			}
			ranked[i].Sold += item.Quantity
			ranked[i].Revenue += item.LineTotal()
		}
	}
	slices.SortStableFunc(ranked, func(a, b ProductSales) int { return cmp.Compare(b.Sold, a.Sold) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func CanUndo(s state.AppState) bool {
	return len(s.ActionHistory) > 0
}

// SalesReport totals orders placed within [start, end].
type SalesReport struct {
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

func Sales(s state.AppState, start, end time.Time) SalesReport {
	var r SalesReport
	for _, o := range s.Orders {
		if o.Timestamp.Before(start) || o.Timestamp.After(end) {
			continue
		}
		r.Revenue += o.Total
		r.Count++
	}
	return r
}

// CategoryLine is one product row inside a CategoryGroup.
type CategoryLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategoryGroup is the sales of one menu category.
type CategoryGroup struct {
	CategoryName string         `json:"category_name"`
	Items        []CategoryLine `json:"items"`
	Subtotal     float64        `json:"subtotal"`
}

// CategoryBreakdown is the payload of the category sales report.
type CategoryBreakdown struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// CategorySales groups line revenue from order history by category.
// Groups and the rows inside them are sorted by name. Revenue here is
// before discount and tax.
func CategorySales(s state.AppState) CategoryBreakdown {
	groups := map[string]*CategoryGroup{}
	rows := map[string]map[string]*CategoryLine{}
	var grand float64

	for _, o := range s.Orders {
		for _, item := range o.Items {
			cat := item.Category
			if cat == "" {
				cat = "Uncategorized"
			}
			g, ok := groups[cat]
			if !ok {
				g = &CategoryGroup{CategoryName: cat}
				groups[cat] = g
				rows[cat] = map[string]*CategoryLine{}
			}
			line, ok := rows[cat][item.Name]
			if !ok {
				line = &CategoryLine{Name: item.Name}
				rows[cat][item.Name] = line
			}
			line.Quantity += item.Quantity
			line.Revenue += item.LineTotal()
			g.Subtotal += item.LineTotal()
			grand += item.LineTotal()
		}
	}

	out := CategoryBreakdown{Categories: []CategoryGroup{}, GrandTotal: grand}
	for cat, g := range groups {
		for _, line := range rows[cat] {
			g.Items = append(g.Items, *line)
		}
		slices.SortFunc(g.Items, func(a, b CategoryLine) int { return cmp.Compare(a.Name, b.Name) })
		out.Categories = append(out.Categories, *g)
	}
	slices.SortFunc(out.Categories, func(a, b CategoryGroup) int { return cmp.Compare(a.CategoryName, b.CategoryName) })
	return out
}
