// Package registry provides a generic thread-safe, insertion-ordered registry
// for values indexed by key.
//
// A Registry only grows: keys are never removed and a registered key is never
// reassigned to a different value. Every read that returns more than one entry
// returns them in the order they were registered.
//
// # Basic Usage
//
// Create a registry and register values:
//
//	r := registry.New[string, int]()
//	if err := r.Register("one", 1); err != nil {
//	    // errors.Is(err, registry.ErrDuplicateKey)
//	}
//
//	value, ok := r.Get("one")
//	if ok {
//	    fmt.Println(value) // Output: 1
//	}
//
// # Atomic Creation
//
// Create checks for the key, builds the value and stores it as one atomic
// step. The factory runs only when the key is free, so values with side
// effects are never built for a key that is already taken:
//
//	timers := registry.New[string, *Timer]()
//	t, err := timers.Create("db", func(name string) *Timer {
//	    return NewTimer(name)
//	})
//	if errors.Is(err, registry.ErrDuplicateKey) {
//	    // someone else owns "db"
//	}
//
// Under concurrent calls with the same key exactly one Create succeeds.
//
// # Lazy Initialization
//
// Use GetOrCreate when a second caller should receive the existing value
// instead of an error:
//
//	pool := pools.GetOrCreate("users_db", func() *Pool {
//	    return NewPool("users_db")
//	})
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Keys, Values and Range
// work on a snapshot copied under the registry lock, so callers may mutate the
// returned slices, and may Register during Range, without affecting the
// registry or the current iteration.
package registry
