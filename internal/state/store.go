package state

import (
	"fmt"
	"sync"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("state")

// Listener is notified after every state change with its own snapshot.
// A returned error (or a panic) is logged and does not reach other listeners.
type Listener func(snapshot AppState) error

type subscription struct {
	id       uint64
	listener Listener
}

// Store holds the one AppState of a terminal. Every write goes through
// ReplaceState or UpdateState; readers only ever see copies.
//
// The mutex guards the state value itself. It is released before listeners
// run, so a listener may write to the store again; that write notifies
// recursively, and it is up to listeners not to loop.
type Store struct {
	mu        sync.Mutex
	state     AppState
	listeners []subscription
	nextID    uint64
}

// New creates a store seeded with a copy of initial.
func New(initial AppState) *Store {
	return &Store{state: initial.Clone()}
}

// GetState returns a snapshot callers may freely modify.
func (s *Store) GetState() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ReplaceState merges the fields set on p into the current state and
// notifies every subscriber.
func (s *Store) ReplaceState(p Patch) {
	s.apply(func(AppState) (Patch, bool) { return p, true })
}

// UpdateState computes a patch from the current state. Returning ok=false
// skips the merge; subscribers are notified either way.
func (s *Store) UpdateState(fn func(current AppState) (p Patch, ok bool)) {
	s.apply(fn)
}

func (s *Store) apply(fn func(AppState) (Patch, bool)) {
	s.mu.Lock()
	if p, ok := fn(s.state.Clone()); ok {
		s.state = p.apply(s.state)
	}
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.notify(listeners)
}

func (s *Store) notify(listeners []subscription) {
	for _, sub := range listeners {
		if err := s.call(sub.listener); err != nil {
			log.Errorf("Listener error: %v", err)
		}
	}
}

func (s *Store) call(l Listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return l(s.GetState())
}

// Subscribe registers l and returns a func that removes it again.
// Listeners are called in subscription order. A nil listener is ignored.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
