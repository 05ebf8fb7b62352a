// Package journal provides persistent recording of trigger activity.
//
// A journal Store keeps one Entry per trigger call: which type fired, how
// many callbacks ran, whether the event was cancelled, and whether
// dispatch raised. A Recorder plugs a Store into an event type as an
// eventkit.Observer, so journaling needs no changes to dispatch code.
package journal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
)

// Entry is one journaled trigger call.
type Entry struct {
	// TriggerID uniquely identifies the trigger call.
	TriggerID string

	// EventType is the name of the event type that was triggered.
	EventType string

	// CallbacksRun is how many callbacks were invoked.
	CallbacksRun int

	// Cancelled is the event's cancelled flag at loop exit.
	Cancelled bool

	// Error is the dispatch failure message, empty on success.
	Error string

	// StartedAt is when the trigger entered the callback loop.
	StartedAt time.Time

	// DurationMs is how long the callback loop took.
	DurationMs float64
}

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores one entry.
	Append(ctx context.Context, entry Entry) error

	// Get retrieves an entry by trigger ID.
	// Returns ErrNotFound if no such entry exists.
	Get(ctx context.Context, triggerID string) (Entry, error)

	// List returns entries in append order, oldest first. An empty
	// eventType matches all types; limit > 0 caps the result.
	List(ctx context.Context, eventType string, limit int) ([]Entry, error)

	// CountByType returns entry counts grouped by event type.
	CountByType(ctx context.Context) (map[string]int, error)

	// Prune removes entries started before the cutoff and returns how
	// many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)

// Recorder journals every trigger of the event types it observes.
// Append failures are logged, never surfaced to the trigger caller.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// Compile-time interface check.
var _ eventkit.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder writing to store. A nil logger disables
// failure logging.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// TriggerCompleted implements eventkit.Observer.
func (r *Recorder) TriggerCompleted(ctx context.Context, rec eventkit.TriggerRecord) {
	entry := Entry{
		TriggerID:    rec.TriggerID,
		EventType:    rec.TypeName,
		CallbacksRun: rec.CallbacksRun,
		Cancelled:    rec.Cancelled,
		StartedAt:    rec.Start,
		DurationMs:   float64(rec.Duration.Microseconds()) / 1000,
	}
	if rec.Err != nil {
		entry.Error = rec.Err.Error()
	}

	if err := r.store.Append(ctx, entry); err != nil && r.logger != nil {
		r.logger.Warn("trigger journal append failed",
			slog.String("event", rec.TypeName),
			slog.String("error", err.Error()),
		)
	}
}
