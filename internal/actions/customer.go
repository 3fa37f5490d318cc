package actions

import (
	"slices"
	"strings"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/state"
	"grillmaster-pos/internal/validation"
)

// CustomerUpdate is a partial edit. Name is applied only when it is
// non-empty after trimming, so a name can never be blanked. Phone and Email
// are applied whenever they are non-nil, which lets an edit clear them.
type CustomerUpdate struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// SetCurrentCustomer selects the customer the next order is for; nil clears it.
func (a *Actions) SetCurrentCustomer(customer *models.Customer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.ReplaceState(state.NewPatch().WithCurrentCustomer(customer))
}

// AddCustomer creates a customer. A non-empty phone must not already belong
// to another customer.
func (a *Actions) AddCustomer(name, phone, email string) (models.Customer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	customer := models.Customer{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	if customer.Name == "" {
		return models.Customer{}, invalid("Name is required")
	}

	current := a.store.GetState()
	if customer.Phone != "" && slices.ContainsFunc(current.Customers, func(c models.Customer) bool {
		return c.Phone == customer.Phone
	}) {
		return models.Customer{}, invalid("Phone number already exists")
	}
	if err := validation.Customer(customer); err != nil {
		return models.Customer{}, invalid(err.Error())
	}

	customer.ID = a.newID()
	customers := append(slices.Clone(current.Customers), customer)
	a.store.ReplaceState(state.NewPatch().WithCustomers(customers))

	log.Infof("Customer %s added", customer.ID)
	return customer, nil
}

// UpdateCustomer applies upd to the customer with id. If that customer is
// the current selection, the selection is refreshed too. The Guest, by id
// or by name, keeps its name, and no other customer may take it.
func (a *Actions) UpdateCustomer(id string, upd CustomerUpdate) (models.Customer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	i := slices.IndexFunc(current.Customers, func(c models.Customer) bool { return c.ID == id })
	if i < 0 {
		return models.Customer{}, notFound("Customer")
	}

	customer := current.Customers[i]
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" {
			if !strings.EqualFold(name, customer.Name) {
				if models.IsGuestID(id) || isGuestName(customer.Name) {
					return models.Customer{}, invalid("Cannot rename Guest customer")
				}
				if isGuestName(name) {
					return models.Customer{}, invalid("Guest is a reserved name")
				}
			}
			customer.Name = name
		}
	}
	if upd.Phone != nil {
		customer.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Email != nil {
		customer.Email = strings.TrimSpace(*upd.Email)
	}

	customers := slices.Clone(current.Customers)
	customers[i] = customer
	change := state.NewPatch().WithCustomers(customers)
	if current.CurrentCustomer != nil && current.CurrentCustomer.ID == id {
		selected := customer
		change = change.WithCurrentCustomer(&selected)
	}
	a.store.ReplaceState(change)

	return customer, nil
}

// DeleteCustomer removes a customer. The Guest record cannot be deleted.
// When the deleted customer was selected, the selection falls back to the
// customer named "guest" (any case), or to nobody.
func (a *Actions) DeleteCustomer(id string) error {
	if models.IsGuestID(id) {
		return invalid("Cannot delete Guest customer")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.store.GetState()
	i := slices.IndexFunc(current.Customers, func(c models.Customer) bool { return c.ID == id })
	if i < 0 {
		return notFound("Customer")
	}
	if isGuestName(current.Customers[i].Name) {
		return invalid("Cannot delete Guest customer")
	}

	customers := slices.Delete(slices.Clone(current.Customers), i, i+1)
	change := state.NewPatch().WithCustomers(customers)
	if current.CurrentCustomer != nil && current.CurrentCustomer.ID == id {
		change = change.WithCurrentCustomer(findGuest(customers))
	}
	a.store.ReplaceState(change)

	log.Infof("Customer %s deleted", id)
	return nil
}

func isGuestName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), "guest")
}

func findGuest(customers []models.Customer) *models.Customer {
	for _, c := range customers {
		if isGuestName(c.Name) {
			return &c
		}
	}
	return nil
}
