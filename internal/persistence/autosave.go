package persistence

import (
	"sync"
	"time"

	"grillmaster-pos/internal/state"
)

// DefaultAutosaveDelay is how long the autosaver waits for changes to settle.
const DefaultAutosaveDelay = 100 * time.Millisecond

// AutoSaver writes the store through a Persister shortly after it changes.
// A burst of changes inside the delay produces a single save of the latest
// snapshot.
type AutoSaver struct {
	persister   *Persister
	delay       time.Duration
	unsubscribe func()

	mu      sync.Mutex
	timer   *time.Timer
	latest  state.AppState
	pending bool
	stopped bool

	saveMu sync.Mutex // keeps saves in snapshot order
}

// StartAutoSave subscribes to store and returns the running autosaver.
func StartAutoSave(p *Persister, store *state.Store, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	a := &AutoSaver{persister: p, delay: delay}
	a.unsubscribe = store.Subscribe(a.schedule)
	return a
}

func (a *AutoSaver) schedule(snapshot state.AppState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return nil
	}
	a.latest = snapshot
	a.pending = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
	return nil
}

func (a *AutoSaver) fire() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	snapshot, pending := a.latest, a.pending
	a.pending = false
	a.mu.Unlock()

	if pending && !a.persister.Save(snapshot) {
		log.Warning("Autosave incomplete, will retry on next change")
	}
}

// Flush cancels the pending timer and saves immediately if anything is
// waiting to be written.
func (a *AutoSaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	a.fire()
}

// Stop unsubscribes from the store and flushes what is pending.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	a.unsubscribe()
	a.Flush()
}
