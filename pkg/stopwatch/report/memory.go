package report

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory report store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]int
	batches []storedBatch
	closed  bool
}

// storedBatch holds the encoded batch with metadata for List().
type storedBatch struct {
	info Info
	data []byte
}

// NewMemoryStore creates a new in-memory report store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(b *Batch) error {
	data, err := b.Marshal()
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, ok := m.byID[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBatch, b.ID)
	}

	m.byID[b.ID] = len(m.batches)
	m.batches = append(m.batches, storedBatch{
		info: Info{
			ID:        b.ID,
			Label:     b.Label,
			Sequence:  len(m.batches) + 1,
			CreatedAt: b.CreatedAt,
			Entries:   len(b.Entries),
			Size:      int64(len(data)),
		},
		data: data,
	})
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(id string) (*Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	i, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Decoding yields a fresh copy
	return Unmarshal(m.batches[i].data)
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, len(m.batches))
	for i, b := range m.batches {
		infos[i] = b.info
	}
	return infos, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.byID = nil
	m.batches = nil
	return nil
}

// Len returns the number of saved batches.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.batches)
}
