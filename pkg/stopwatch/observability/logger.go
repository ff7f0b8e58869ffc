// Package observability provides structured logging, metrics, and tracing
// for stopwatch factories and handles.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds stopwatch context to a logger.
// Returns a new logger with the stopwatch_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "db-query")
//	enriched.Info("lap recorded") // includes stopwatch_id
func EnrichLogger(logger *slog.Logger, stopwatchID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("stopwatch_id", stopwatchID))
}

// LogCreate logs a successful stopwatch registration.
func LogCreate(logger *slog.Logger, stopwatchID string, registered int) {
	if logger == nil {
		return
	}
	logger.Debug("stopwatch created",
		slog.String("stopwatch_id", stopwatchID),
		slog.Int("registered", registered),
	)
}

// LogCreateRejected logs a create call that was refused.
func LogCreateRejected(logger *slog.Logger, stopwatchID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("stopwatch create rejected",
		slog.String("stopwatch_id", stopwatchID),
		slog.String("error", err.Error()),
	)
}

// LogLap logs a recorded lap. logger should come from EnrichLogger.
func LogLap(logger *slog.Logger, lap int, d time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("lap recorded",
		slog.Int("lap", lap),
		slog.Float64("duration_ms", durationMs(d)),
	)
}

// LogStop logs a stopwatch stop.
func LogStop(logger *slog.Logger, laps int, elapsed time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("stopwatch stopped",
		slog.Int("laps", laps),
		slog.Float64("elapsed_ms", durationMs(elapsed)),
	)
}

// LogReset logs a stopwatch reset.
func LogReset(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("stopwatch reset")
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
