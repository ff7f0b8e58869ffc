// Package report exports point-in-time reports of stopwatch state.
//
// A Batch captures the Snapshots of every stopwatch a factory created at one
// moment. Batches are write-once: stores append them and never rebuild a
// factory from them.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch"
)

// Version is the current report format version.
// Increment when making breaking changes to the Batch structure.
const Version = 1

// Batch is a persisted set of stopwatch snapshots.
type Batch struct {
	Version   int                  `json:"version"`
	ID        string               `json:"id"`
	Label     string               `json:"label,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Entries   []stopwatch.Snapshot `json:"entries"`
}

// New creates a batch with a fresh ID from the given snapshots.
// The snapshots slice is copied.
func New(label string, snaps []stopwatch.Snapshot) *Batch {
	entries := make([]stopwatch.Snapshot, len(snaps))
	copy(entries, snaps)
	return &Batch{
		Version:   Version,
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Entries:   entries,
	}
}

// FromFactory snapshots every stopwatch in f, in creation order.
func FromFactory(label string, f *stopwatch.Factory) *Batch {
	return New(label, f.Snapshots())
}

// Total returns the summed elapsed time of all entries.
func (b *Batch) Total() time.Duration {
	var total time.Duration
	for _, e := range b.Entries {
		total += e.Elapsed
	}
	return total
}

// Marshal serializes a batch to JSON.
func (b *Batch) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

// Unmarshal deserializes a batch from JSON.
func Unmarshal(data []byte) (*Batch, error) {
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
