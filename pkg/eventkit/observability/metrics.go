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

// MetricsRecorder records event dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTrigger records a completed trigger call with its duration,
	// callback count, and error status.
	RecordTrigger(ctx context.Context, eventName string, duration time.Duration, callbacks int, err error)

	// RecordCancellation records an event cancelled during dispatch.
	RecordCancellation(ctx context.Context, eventName string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	triggers       metric.Int64Counter
	triggerErrors  metric.Int64Counter
	triggerLatency metric.Float64Histogram
	callbacks      metric.Int64Histogram
	cancellations  metric.Int64Counter
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
	meter := otel.Meter("eventkit")

	triggers, err := meter.Int64Counter("eventkit.triggers",
		metric.WithDescription("Number of trigger calls"),
	)
	if err != nil {
		return nil, err
	}

	triggerErrors, err := meter.Int64Counter("eventkit.trigger.errors",
		metric.WithDescription("Number of trigger calls that raised a dispatch failure"),
	)
	if err != nil {
		return nil, err
	}

	triggerLatency, err := meter.Float64Histogram("eventkit.trigger.latency_ms",
		metric.WithDescription("Trigger latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	callbacks, err := meter.Int64Histogram("eventkit.trigger.callbacks",
		metric.WithDescription("Callbacks invoked per trigger"),
	)
	if err != nil {
		return nil, err
	}

	cancellations, err := meter.Int64Counter("eventkit.cancellations",
		metric.WithDescription("Number of events cancelled during dispatch"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		triggers:       triggers,
		triggerErrors:  triggerErrors,
		triggerLatency: triggerLatency,
		callbacks:      callbacks,
		cancellations:  cancellations,
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

// RecordTrigger records a completed trigger call.
func (m *otelMetrics) RecordTrigger(ctx context.Context, eventName string, duration time.Duration, callbacks int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event", eventName),
	}

	m.triggers.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.triggerLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.callbacks.Record(ctx, int64(callbacks), metric.WithAttributes(attrs...))

	if err != nil {
		m.triggerErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordCancellation records a cancelled event.
func (m *otelMetrics) RecordCancellation(ctx context.Context, eventName string) {
	m.cancellations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
	))
}
