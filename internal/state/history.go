package state

import (
	"fmt"
	"slices"
	"time"

	"grillmaster-pos/internal/models"
)

// MaxHistory bounds the undo log. Older entries are dropped silently.
const MaxHistory = 5

// ActionKind labels an undoable action.
type ActionKind string

const (
	ActionAddToCart      ActionKind = "ADD_TO_CART"
	ActionRemoveFromCart ActionKind = "REMOVE_FROM_CART"
	ActionUpdateQuantity ActionKind = "UPDATE_QUANTITY"
	ActionClearCart      ActionKind = "CLEAR_CART"
)

// HistoryEntry is one undoable action. The set of implementations is closed:
// each variant carries exactly what it needs to describe and reverse itself.
type HistoryEntry interface {
	Kind() ActionKind
	RecordedAt() time.Time
	Describe() string
	// Restore yields the fields captured before the action ran, and only those.
	Restore() Patch
	isHistoryEntry()
}

// CartSnapshot is the captured pre-mutation cart shared by every cart variant.
type CartSnapshot struct {
	PreviousCart []models.CartItem
	At           time.Time
}

func (c CartSnapshot) RecordedAt() time.Time { return c.At }

func (c CartSnapshot) Restore() Patch {
	return NewPatch().WithCart(slices.Clone(c.PreviousCart))
}

func (CartSnapshot) isHistoryEntry() {}

type AddToCartEntry struct {
	CartSnapshot
	ProductID   string
	ProductName string
}

func (AddToCartEntry) Kind() ActionKind { return ActionAddToCart }

func (e AddToCartEntry) Describe() string { return "Added " + e.ProductName }

type RemoveFromCartEntry struct {
	CartSnapshot
	ProductID   string
	ProductName string
}

func (RemoveFromCartEntry) Kind() ActionKind { return ActionRemoveFromCart }

func (e RemoveFromCartEntry) Describe() string { return "Removed " + e.ProductName }

type UpdateQuantityEntry struct {
	CartSnapshot
	ProductID   string
	ProductName string
	From        int
	To          int
}

func (UpdateQuantityEntry) Kind() ActionKind { return ActionUpdateQuantity }

func (e UpdateQuantityEntry) Describe() string {
	return fmt.Sprintf("%s %d → %d", e.ProductName, e.From, e.To)
}

type ClearCartEntry struct {
	CartSnapshot
	ItemCount int
}

func (ClearCartEntry) Kind() ActionKind { return ActionClearCart }

func (e ClearCartEntry) Describe() string {
	return fmt.Sprintf("Cleared %d items", e.ItemCount)
}

// PushHistory puts e in front of history and drops anything past MaxHistory.
// The input slice is not modified.
func PushHistory(history []HistoryEntry, e HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, MaxHistory)
	out = append(out, e)
	for _, h := range history {
		if len(out) == MaxHistory {
			break
		}
		out = append(out, h)
	}
	return out
}

// KindOf returns a pointer to e's kind, or nil for a nil entry.
func KindOf(e HistoryEntry) *ActionKind {
	if e == nil {
		return nil
	}
	k := e.Kind()
	return &k
}
