// Package plugindata implements the per-plugin store that lets hook
// implementations keep state between hook calls.
//
// Values are type-erased. The registry never releases a value on its own:
// a value registered without a finalizer is the plugin's to release before
// it unregisters the key.
package plugindata

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Errors returned by the registry.
var (
	ErrUnknownKey   = errors.New("unknown plugin data key")
	ErrDuplicateKey = errors.New("plugin data key already registered")
	ErrClosed       = errors.New("plugin data registry closed")
)

// Finalizer releases a value when it leaves the registry.
type Finalizer func(value any)

// Option configures a registration.
type Option func(*entry)

// WithFinalizer runs fn with the value when the key is unregistered or the
// registry is closed.
func WithFinalizer(fn Finalizer) Option {
	return func(e *entry) {
		e.finalize = fn
	}
}

type entry struct {
	value    any
	finalize Finalizer
}

// Registry maps string keys to plugin-owned values.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register stores value under key. Registering an existing key fails with
// ErrDuplicateKey and leaves the stored value untouched.
func (r *Registry) Register(key string, value any, opts ...Option) error {
	e := &entry{value: value}
	for _, opt := range opts {
		opt(e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	r.entries[key] = e
	return nil
}

// Get returns the value stored under key.
func (r *Registry) Get(key string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return e.value, nil
}

// Unregister removes key. The value's finalizer, if any, runs after the
// mapping is gone and outside the registry lock.
func (r *Registry) Unregister(key string) error {
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if e.finalize != nil {
		e.finalize(e.value)
	}
	return nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close empties the registry, running the finalizer of every remaining
// value in key order. It returns the keys that were still registered
// without a finalizer; their values were never released. Later
// registrations fail with ErrClosed.
func (r *Registry) Close() (leaked []string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := entries[k]
		if e.finalize == nil {
			leaked = append(leaked, k)
			continue
		}
		e.finalize(e.value)
	}
	return leaked
}
