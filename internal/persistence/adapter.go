// Package persistence saves and restores terminal state through a key-value
// backend. Nothing in here returns an error to the action layer: failed
// saves report false, failed loads fall back to the caller's default.
package persistence

import (
	"encoding/json"
	"sync"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("persistence")

// Backend stores opaque values by key. ok is false when the key was never set.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}

// Adapter encodes values as JSON on top of a Backend.
type Adapter struct {
	backend Backend
}

func NewAdapter(b Backend) *Adapter {
	return &Adapter{backend: b}
}

// Save stores value under key and reports whether it was written.
func (a *Adapter) Save(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Errorf("Storage save error [%s]: %v", key, err)
		return false
	}
	if err := a.backend.Set(key, raw); err != nil {
		log.Errorf("Storage save error [%s]: %v", key, err)
		return false
	}
	return true
}

// Load reads key into a T. A missing key, a backend failure or a value
// that does not decode all yield def.
func Load[T any](a *Adapter, key string, def T) T {
	raw, ok, err := a.backend.Get(key)
	if err != nil {
		log.Errorf("Storage load error [%s]: %v", key, err)
		return def
	}
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Errorf("Storage load error [%s]: %v", key, err)
		return def
	}
	return out
}

// Memory is a Backend kept in process memory.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{m: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[key]
	return v, ok, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
	return nil
}
