// Package actions holds the business rules for the cart, customers, orders
// and the menu. Every action reads the store, computes the next state and
// writes it back in a single replacement; failures leave state untouched.
package actions

import (
	"errors"
	"sync"
	"time"

	"grillmaster-pos/internal/state"

	"github.com/google/uuid"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("actions")

var (
	// ErrValidation marks bad or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an id that is not in its collection.
	ErrNotFound = errors.New("not found")
)

// Error is the failure every action returns. Reason is shown to the user
// as-is; Kind is one of the sentinels above.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(reason string) error {
	log.Warningf("Rejected: %s", reason)
	return &Error{Kind: ErrValidation, Reason: reason}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Reason: what + " not found"}
}

// Actions runs domain actions against one store. Calls are serialised so
// that concurrent callers (HTTP handlers, the assistant) never interleave a
// read-modify-write.
type Actions struct {
	mu    sync.Mutex
	store *state.Store
	now   func() time.Time
	newID func() string
}

type Option func(*Actions)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

// WithIDGenerator overrides how new record ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(a *Actions) { a.newID = newID }
}

func New(store *state.Store, opts ...Option) *Actions {
	a := &Actions{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store exposes the underlying store for selectors and subscribers.
func (a *Actions) Store() *state.Store {
	return a.store
}

// record pushes e onto the undo log, in the same patch as the change it describes.
func (a *Actions) record(current state.AppState, change state.Patch, e state.HistoryEntry) state.Patch {
	return change.Merge(state.NewPatch().
		WithActionHistory(state.PushHistory(current.ActionHistory, e)).
		WithLastAction(state.KindOf(e)))
}
