package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch/config"
)

// telemetry owns the SDK providers installed for a run.
// Disabled signals leave the corresponding field nil.
type telemetry struct {
	reader  *sdkmetric.ManualReader
	meters  *sdkmetric.MeterProvider
	tracers *sdktrace.TracerProvider
}

// setupTelemetry installs global OTel providers for the enabled signals.
// Metrics are collected on demand and printed by report; spans are logged at
// debug level as they end.
func setupTelemetry(s config.Settings, logger *slog.Logger) *telemetry {
	t := &telemetry{}

	if s.Metrics {
		t.reader = sdkmetric.NewManualReader()
		t.meters = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
		otel.SetMeterProvider(t.meters)
	}

	if s.Tracing {
		t.tracers = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(&logSpanExporter{logger: logger}),
		)
		otel.SetTracerProvider(t.tracers)
	}

	return t
}

// report prints a one-line summary per collected metric.
func (t *telemetry) report(ctx context.Context, out io.Writer) error {
	if t.reader == nil {
		return nil
	}

	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			fmt.Fprintf(out, "metric %s %s\n", m.Name, summarize(m.Data))
		}
	}
	return nil
}

func summarize(data metricdata.Aggregation) string {
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		var total int64
		for _, dp := range d.DataPoints {
			total += dp.Value
		}
		return fmt.Sprintf("sum=%d", total)
	case metricdata.Histogram[float64]:
		var count uint64
		var sum float64
		for _, dp := range d.DataPoints {
			count += dp.Count
			sum += dp.Sum
		}
		return fmt.Sprintf("count=%d sum=%.3f", count, sum)
	case metricdata.Histogram[int64]:
		var count uint64
		var sum int64
		for _, dp := range d.DataPoints {
			count += dp.Count
			sum += dp.Sum
		}
		return fmt.Sprintf("count=%d sum=%d", count, sum)
	default:
		return fmt.Sprintf("%T", data)
	}
}

func (t *telemetry) shutdown(ctx context.Context) error {
	var errs []error
	if t.meters != nil {
		errs = append(errs, t.meters.Shutdown(ctx))
	}
	if t.tracers != nil {
		errs = append(errs, t.tracers.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// logSpanExporter writes finished spans to a structured logger.
type logSpanExporter struct {
	logger *slog.Logger
}

func (e *logSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := []slog.Attr{
			slog.String("name", span.Name()),
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.Duration("duration", span.EndTime().Sub(span.StartTime())),
			slog.String("status", span.Status().Code.String()),
		}
		for _, kv := range span.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.LogAttrs(ctx, slog.LevelDebug, "span finished", attrs...)
	}
	return nil
}

func (e *logSpanExporter) Shutdown(context.Context) error {
	return nil
}
