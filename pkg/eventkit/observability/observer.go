package observability

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
	"go.opentelemetry.io/otel/attribute"
)

// Observer bridges eventkit trigger records into structured logs, metrics,
// and span events. Attach it to an event type via Builder.Observer.
//
// Any of the fields may be left zero: a nil Logger disables logging and a
// nil Metrics disables metrics.
type Observer struct {
	// Logger receives per-trigger log records.
	Logger *slog.Logger

	// Metrics receives per-trigger measurements.
	Metrics MetricsRecorder
}

// Compile-time interface check.
var _ eventkit.Observer = (*Observer)(nil)

// NewObserver creates an observer writing to the given logger and
// recorder.
func NewObserver(logger *slog.Logger, metrics MetricsRecorder) *Observer {
	return &Observer{Logger: logger, Metrics: metrics}
}

// TriggerCompleted implements eventkit.Observer.
func (o *Observer) TriggerCompleted(ctx context.Context, rec eventkit.TriggerRecord) {
	durationMs := float64(rec.Duration.Milliseconds())

	if rec.Err != nil {
		LogTriggerError(o.Logger, rec.TypeName, rec.Err, durationMs)
	} else {
		LogTriggerComplete(o.Logger, rec.TypeName, rec.CallbacksRun, durationMs, rec.Cancelled)
	}

	if o.Metrics != nil {
		o.Metrics.RecordTrigger(ctx, rec.TypeName, rec.Duration, rec.CallbacksRun, rec.Err)
		if rec.Cancelled {
			o.Metrics.RecordCancellation(ctx, rec.TypeName)
		}
	}

	AddSpanEvent(ctx, "eventkit.trigger",
		attribute.String("event.name", rec.TypeName),
		attribute.String("trigger.id", rec.TriggerID),
		attribute.Int("callbacks", rec.CallbacksRun),
		attribute.Bool("cancelled", rec.Cancelled),
	)
}
