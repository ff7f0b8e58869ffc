package report

import (
	"errors"
	"time"
)

// Store persists report batches.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save appends a batch.
	// Returns ErrDuplicateBatch if a batch with the same ID exists.
	Save(b *Batch) error

	// Load retrieves a batch by ID.
	// Returns ErrNotFound if the batch doesn't exist.
	Load(id string) (*Batch, error)

	// List returns metadata for all batches, ordered by sequence.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading full batches.
type Info struct {
	ID        string
	Label     string
	Sequence  int
	CreatedAt time.Time
	Entries   int
	Size      int64
}

// Sentinel errors for report stores.
var (
	// ErrNotFound indicates a batch doesn't exist.
	ErrNotFound = errors.New("report batch not found")

	// ErrDuplicateBatch indicates a batch ID was already saved.
	ErrDuplicateBatch = errors.New("report batch already saved")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("report store closed")
)
