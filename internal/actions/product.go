package actions

import (
	"math"
	"slices"
	"strings"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
	"grillmaster-pos/internal/validation"

	"github.com/spf13/cast"
)

// DefaultProductImage is used when a product is added without an image.
const DefaultProductImage = "🍽️"

// ProductUpdate is a partial edit. Each field is applied only when it passes
// the same check AddProduct applies to it; anything else is ignored.
// Price may be a number or a numeric string.
type ProductUpdate struct {
	Name     *string `json:"name"`
	Price    any     `json:"price"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
}

// parsePrice accepts a float, an int or a numeric string and reports whether
// the result is a finite, non-negative price.
func parsePrice(raw any) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	price, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, false
	}
	return price, true
}

// AddProduct adds a menu item. price may arrive as text from a form.
func (a *Actions) AddProduct(name string, price any, category, image string) (models.Product, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	parsed, ok := parsePrice(price)
	if name == "" || category == "" || !ok {
		log.Warningf("Invalid product data: name=%q price=%v category=%q", name, price, category)
		return models.Product{}, invalid("Invalid product data")
	}
	if image = strings.TrimSpace(image); image == "" {
		image = DefaultProductImage
	}

	product := models.Product{Name: name, Price: parsed, Category: category, Image: image}
	if err := validation.Product(product); err != nil {
		return models.Product{}, invalid(err.Error())
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	product.ID = a.newID()
	current := a.store.GetState()
	a.store.ReplaceState(state.NewPatch().WithProducts(append(slices.Clone(current.Products), product)))

	log.Infof("Product %s added: %s", product.ID, product.Name)
	return product, nil
}

// UpdateProduct applies upd to the product with id.
func (a *Actions) UpdateProduct(id string, upd ProductUpdate) (models.Product, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	i := slices.IndexFunc(current.Products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return models.Product{}, notFound("Product")
	}

	product := current.Products[i]
	if v := trimmed(upd.Name); v != "" {
		product.Name = v
	}
	if price, ok := parsePrice(upd.Price); ok && price <= validation.MaxPrice {
		product.Price = price
	}
	if v := trimmed(upd.Category); v != "" {
		product.Category = v
	}
	if v := trimmed(upd.Image); v != "" {
		product.Image = v
	}

	products := slices.Clone(current.Products)
	products[i] = product
	a.store.ReplaceState(state.NewPatch().WithProducts(products))
	return product, nil
}

// DeleteProduct removes a product. Past orders keep their own copy of it,
// so nothing else is touched.
func (a *Actions) DeleteProduct(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	products := slices.DeleteFunc(slices.Clone(current.Products), func(p models.Product) bool { return p.ID == id })
	a.store.ReplaceState(state.NewPatch().WithProducts(products))
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
