package stopwatch

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/observability"
)

// Clock returns the current time. Stopwatches read time only through it.
type Clock func() time.Time

// options holds configuration shared by factories and handles.
type options struct {
	clock          Clock
	logger         *slog.Logger
	metricsEnabled bool
	metrics        observability.MetricsRecorder
	tracingEnabled bool
	spans          observability.SpanManager
}

// defaultOptions returns the default configuration: wall clock, no logging,
// metrics and tracing disabled.
func defaultOptions() options {
	return options{
		clock:   time.Now,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

func applyOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Factory or a Stopwatch.
type Option func(*options)

// WithClock sets the time source. A nil clock is ignored.
//
// Example:
//
//	f := stopwatch.NewFactory(stopwatch.WithClock(fake.Now))
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the structured logger. nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metricsEnabled = enabled
		if enabled {
			o.metrics = observability.NewMetricsRecorder()
		} else {
			o.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracingEnabled = enabled
		if enabled {
			o.spans = observability.NewSpanManager()
		} else {
			o.spans = observability.NoopSpanManager{}
		}
	}
}
