// Package validation holds the field rules for customers, products and
// orders, expressed as validator struct tags.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"grillmaster-pos/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	MaxOrderItems = 50
	MaxPrice      = 1000000
)

// Local mobile numbers: a leading 0 followed by nine digits.
var phonePattern = regexp.MustCompile(`^0[0-9]{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("localphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

type customerRules struct {
	Name  string `validate:"required,min=2,max=100"`
	Phone string `validate:"omitempty,localphone"`
	Email string `validate:"omitempty,email"`
}

type productRules struct {
	Name     string  `validate:"required,min=3,max=100"`
	Price    float64 `validate:"gte=0,lte=1000000"`
	Category string  `validate:"required"`
}

type orderRules struct {
	Items int     `validate:"min=1,max=50"`
	Total float64 `validate:"gte=0"`
}

// Customer checks a fully-built customer record.
func Customer(c models.Customer) error {
	return check(customerRules{Name: strings.TrimSpace(c.Name), Phone: c.Phone, Email: c.Email})
}

// Product checks a fully-built product record.
func Product(p models.Product) error {
	return check(productRules{Name: strings.TrimSpace(p.Name), Price: p.Price, Category: strings.TrimSpace(p.Category)})
}

// Order checks the line item count and total of an order about to be saved.
func Order(o models.Order) error {
	return check(orderRules{Items: len(o.Items), Total: o.Total})
}

func check(rules any) error {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errors.New(message(fieldErrs[0]))
	}
	return err
}

// message renders the first failing rule the way the terminal shows it.
func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "min":
			return fmt.Sprintf("Name must be at least %s characters", fe.Param())
		default:
			return fmt.Sprintf("Name must be at most %s characters", fe.Param())
		}
	case "Phone":
		return "Invalid phone format (0XXXXXXXXX)"
	case "Email":
		return "Invalid email format"
	case "Price":
		if fe.Tag() == "gte" {
			return "Price cannot be negative"
		}
		return fmt.Sprintf("Price cannot exceed %d", MaxPrice)
	case "Category":
		return "Category is required"
	case "Items":
		if fe.Tag() == "min" {
			return "Order must contain at least one item"
		}
		return fmt.Sprintf("Order cannot exceed %d items", MaxOrderItems)
	case "Total":
		return "Invalid order total"
	}
	return fe.Error()
}
