package stopwatch

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/observability"
	"github.com/randalmurphal/stopwatch/pkg/stopwatch/registry"
)

// Factory creates uniquely named stopwatches and keeps every one it created,
// in creation order. A Factory is safe for concurrent use.
//
// The zero value is not usable; call NewFactory.
type Factory struct {
	cfg     options
	watches *registry.Registry[string, *Stopwatch]
}

// NewFactory creates an empty factory. Options also apply to every
// stopwatch the factory creates.
func NewFactory(opts ...Option) *Factory {
	return &Factory{
		cfg:     applyOptions(opts),
		watches: registry.New[string, *Stopwatch](),
	}
}

// Create builds a stopwatch named id and registers it.
//
// Errors match ErrInvalidArgument and are *ArgumentError values:
//   - id is empty (ErrEmptyID)
//   - id is already registered (ErrDuplicateID)
//
// A failed call leaves the factory unchanged. Concurrent calls with the same
// id produce exactly one success.
func (f *Factory) Create(id string) (*Stopwatch, error) {
	return f.CreateContext(context.Background(), id)
}

// CreateContext is Create with a context for tracing and metrics.
func (f *Factory) CreateContext(ctx context.Context, id string) (*Stopwatch, error) {
	done := observability.TimedOperation()
	ctx, span := f.cfg.spans.StartCreateSpan(ctx, id)

	sw, err := f.create(id)

	f.cfg.metrics.RecordCreate(ctx, reasonLabel(err), done())
	if err != nil {
		observability.LogCreateRejected(f.cfg.logger, id, err)
		f.cfg.spans.EndSpanWithError(span, err)
		return nil, err
	}

	registered := f.watches.Len()
	f.cfg.spans.AddSpanEvent(ctx, "registered", attribute.Int("registered", registered))
	f.cfg.spans.EndSpanWithError(span, nil)
	observability.LogCreate(f.cfg.logger, id, registered)
	return sw, nil
}

func (f *Factory) create(id string) (*Stopwatch, error) {
	if id == "" {
		return nil, &ArgumentError{Reason: ErrEmptyID}
	}

	sw, err := f.watches.Create(id, func(id string) *Stopwatch {
		return newStopwatch(id, f.cfg)
	})
	if errors.Is(err, registry.ErrDuplicateKey) {
		return nil, &ArgumentError{ID: id, Reason: ErrDuplicateID}
	}
	return sw, err
}

// List returns every stopwatch created so far, in creation order.
// The slice is a fresh copy: it is never nil and later creates do not change it.
func (f *Factory) List() []*Stopwatch {
	watches := f.watches.Values()
	f.cfg.metrics.RecordList(context.Background(), len(watches))
	return watches
}

// Get returns the stopwatch registered under id.
func (f *Factory) Get(id string) (*Stopwatch, bool) {
	return f.watches.Get(id)
}

// IDs returns the registered identifiers in creation order.
func (f *Factory) IDs() []string {
	return f.watches.Keys()
}

// Len returns the number of registered stopwatches.
func (f *Factory) Len() int {
	return f.watches.Len()
}

// Snapshots captures the state of every registered stopwatch, in creation order.
func (f *Factory) Snapshots() []Snapshot {
	watches := f.List()
	snaps := make([]Snapshot, len(watches))
	for i, sw := range watches {
		snaps[i] = sw.Snapshot()
	}
	return snaps
}
