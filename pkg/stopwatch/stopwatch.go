package stopwatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/observability"
)

// Stopwatch is a named timer that records lap times.
// All methods are safe for concurrent use.
//
// A lap runs from Start (or the previous Lap) to the next Lap or Stop.
// Stop records the running lap and halts the stopwatch; a later Start
// begins a new lap. Time spent stopped is never counted.
type Stopwatch struct {
	id      string
	now     Clock
	logger  *slog.Logger
	metrics observability.MetricsRecorder

	mu       sync.Mutex
	running  bool
	lapStart time.Time
	laps     []time.Duration
}

// New creates a stopped stopwatch with no laps.
//
// New does not register the stopwatch anywhere; use Factory.Create for a
// stopwatch that must be unique and listed.
func New(id string, opts ...Option) *Stopwatch {
	return newStopwatch(id, applyOptions(opts))
}

func newStopwatch(id string, cfg options) *Stopwatch {
	return &Stopwatch{
		id:      id,
		now:     cfg.clock,
		logger:  observability.EnrichLogger(cfg.logger, id),
		metrics: cfg.metrics,
	}
}

// ID returns the stopwatch identifier.
func (s *Stopwatch) ID() string {
	return s.id
}

// Start begins a new lap.
// Returns ErrAlreadyRunning if the stopwatch is running.
func (s *Stopwatch) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("start %q: %w", s.id, ErrAlreadyRunning)
	}
	s.running = true
	s.lapStart = s.now()
	return nil
}

// Lap records the time since the current lap began and starts the next one.
// Returns ErrNotRunning if the stopwatch is stopped.
func (s *Stopwatch) Lap() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("lap %q: %w", s.id, ErrNotRunning)
	}
	now := s.now()
	lap := now.Sub(s.lapStart)
	s.laps = append(s.laps, lap)
	s.lapStart = now
	n := len(s.laps)
	s.mu.Unlock()

	s.metrics.RecordLap(context.Background(), s.id, lap)
	observability.LogLap(s.logger, n, lap)
	return nil
}

// Stop records the running lap and halts the stopwatch.
// Returns ErrNotRunning if the stopwatch is already stopped.
func (s *Stopwatch) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("stop %q: %w", s.id, ErrNotRunning)
	}
	lap := s.now().Sub(s.lapStart)
	s.laps = append(s.laps, lap)
	s.running = false
	n := len(s.laps)
	elapsed := sum(s.laps)
	s.mu.Unlock()

	s.metrics.RecordLap(context.Background(), s.id, lap)
	observability.LogStop(s.logger, n, elapsed)
	return nil
}

// Reset stops the stopwatch and discards every lap.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	s.running = false
	s.laps = nil
	s.lapStart = time.Time{}
	s.mu.Unlock()

	observability.LogReset(s.logger)
}

// Running reports whether the stopwatch is running.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LapTimes returns the recorded laps in order.
// The returned slice is a copy and never nil.
func (s *Stopwatch) LapTimes() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	laps := make([]time.Duration, len(s.laps))
	copy(laps, s.laps)
	return laps
}

// Elapsed returns the total recorded time plus the running lap, if any.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	total := sum(s.laps)
	if s.running {
		total += s.now().Sub(s.lapStart)
	}
	return total
}

// Snapshot is a point-in-time copy of a stopwatch's state.
type Snapshot struct {
	ID      string          `json:"id"`
	Running bool            `json:"running"`
	Elapsed time.Duration   `json:"elapsed_ns"`
	Laps    []time.Duration `json:"laps_ns"`
}

// Snapshot captures the current state under a single lock.
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	laps := make([]time.Duration, len(s.laps))
	copy(laps, s.laps)
	return Snapshot{
		ID:      s.id,
		Running: s.running,
		Elapsed: s.elapsedLocked(),
		Laps:    laps,
	}
}

// String implements fmt.Stringer.
func (s *Stopwatch) String() string {
	snap := s.Snapshot()
	state := "stopped"
	if snap.Running {
		state = "running"
	}
	return fmt.Sprintf("Stopwatch[%s] %s elapsed=%s laps=%v", snap.ID, state, snap.Elapsed, snap.Laps)
}

func sum(laps []time.Duration) time.Duration {
	var total time.Duration
	for _, l := range laps {
		total += l
	}
	return total
}
