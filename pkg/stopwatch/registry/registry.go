package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateKey indicates a key is already registered.
var ErrDuplicateKey = errors.New("registry: key already registered")

// entry is one registered key/value pair.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Registry is a thread-safe, insertion-ordered registry for values indexed by key.
// It uses sync.RWMutex for optimal read-heavy workloads.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	index   map[K]int
	entries []entry[K, V]
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		index: make(map[K]int),
	}
}

// Register adds a value to the registry.
// Returns ErrDuplicateKey if the key is already registered; the existing
// value is left untouched.
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	r.insert(key, value)
	return nil
}

// Create builds a value with factory and registers it under key.
//
// The existence check, the factory call and the insert happen under a single
// write lock, so concurrent calls with the same key yield exactly one success.
// The factory is not called when the key is already registered.
func (r *Registry[K, V]) Create(key K, factory func(K) V) (V, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[key]; ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}

	v := factory(key)
	r.insert(key, v)
	return v, nil
}

// insert appends an entry. Caller must hold the write lock.
func (r *Registry[K, V]) insert(key K, value V) {
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry[K, V]{key: key, value: value})
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return r.entries[i].value, true
}

// MustGet returns the value for a key, panicking if not found.
func (r *Registry[K, V]) MustGet(key K) V {
	v, ok := r.Get(key)
	if !ok {
		panic("registry: key not found")
	}
	return v
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[key]
	return ok
}

// Keys returns all keys in registration order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns all values in registration order.
// The returned slice is a copy and never nil.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := make([]V, len(r.entries))
	for i, e := range r.entries {
		values[i] = e.value
	}
	return values
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over all entries in registration order.
// The function fn is called for each entry. If fn returns false,
// iteration stops.
//
// Range iterates over a snapshot of the registry, so it is safe
// to call Register or Create during iteration without affecting
// the current iteration.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make([]entry[K, V], len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for _, e := range snapshot {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// GetOrCreate returns the value for a key, creating it with the factory
// function if it doesn't exist. This operation is atomic - the factory
// is called at most once per key, even under concurrent access.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) V {
	// Fast path: check if already exists
	if v, ok := r.Get(key); ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if i, ok := r.index[key]; ok {
		return r.entries[i].value
	}

	v := factory()
	r.insert(key, v)
	return v
}
