package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records stopwatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCreate records a create call. reason is empty on success.
	RecordCreate(ctx context.Context, reason string, duration time.Duration)

	// RecordLap records a completed lap for a stopwatch.
	RecordLap(ctx context.Context, stopwatchID string, lap time.Duration)

	// RecordList records a registry snapshot of the given size.
	RecordList(ctx context.Context, size int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	creates       metric.Int64Counter
	createErrors  metric.Int64Counter
	createLatency metric.Float64Histogram
	laps          metric.Float64Histogram
	listSize      metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stopwatch")

	creates, err := meter.Int64Counter("stopwatch.registry.creates",
		metric.WithDescription("Number of stopwatches registered"),
	)
	if err != nil {
		return nil, err
	}

	createErrors, err := meter.Int64Counter("stopwatch.registry.create_errors",
		metric.WithDescription("Number of rejected create calls"),
	)
	if err != nil {
		return nil, err
	}

	createLatency, err := meter.Float64Histogram("stopwatch.registry.create_latency_ms",
		metric.WithDescription("Create call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	laps, err := meter.Float64Histogram("stopwatch.lap.duration_ms",
		metric.WithDescription("Recorded lap durations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	listSize, err := meter.Int64Histogram("stopwatch.registry.list_size",
		metric.WithDescription("Number of stopwatches returned by list snapshots"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		creates:       creates,
		createErrors:  createErrors,
		createLatency: createLatency,
		laps:          laps,
		listSize:      listSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCreate records a create call.
func (m *otelMetrics) RecordCreate(ctx context.Context, reason string, duration time.Duration) {
	m.createLatency.Record(ctx, durationMs(duration),
		metric.WithAttributes(attribute.Bool("success", reason == "")))

	if reason != "" {
		m.createErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		return
	}
	m.creates.Add(ctx, 1)
}

// RecordLap records a lap.
func (m *otelMetrics) RecordLap(ctx context.Context, stopwatchID string, lap time.Duration) {
	m.laps.Record(ctx, durationMs(lap),
		metric.WithAttributes(attribute.String("stopwatch_id", stopwatchID)))
}

// RecordList records a list snapshot.
func (m *otelMetrics) RecordList(ctx context.Context, size int) {
	m.listSize.Record(ctx, int64(size))
}
