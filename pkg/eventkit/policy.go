package eventkit

import (
	"context"
	"log/slog"
)

// ExceptionHandler decides what happens to a callback failure. It is
// invoked once per failing callback with the event instance and the raw
// error. Returning a non-nil error "raises": the engine accumulates it and
// surfaces the accumulated failures as one *DispatchError after the
// callback loop finishes. Returning nil swallows the failure.
//
// A raised error that is already a *DispatchError is passed through as-is;
// anything else is wrapped by the engine.
type ExceptionHandler[E Event] interface {
	// HandleException handles one callback failure.
	HandleException(ctx context.Context, ev E, cause error) error
}

// ExceptionHandlerFunc adapts a function to the ExceptionHandler interface.
type ExceptionHandlerFunc[E Event] func(ctx context.Context, ev E, cause error) error

// HandleException implements ExceptionHandler.
func (f ExceptionHandlerFunc[E]) HandleException(ctx context.Context, ev E, cause error) error {
	return f(ctx, ev, cause)
}

// Rethrow returns the default exception policy: every callback failure is
// wrapped in a *DispatchError and raised.
func Rethrow[E Event]() ExceptionHandler[E] {
	return rethrowHandler[E]{}
}

type rethrowHandler[E Event] struct{}

func (rethrowHandler[E]) HandleException(_ context.Context, ev E, cause error) error {
	return &DispatchError{TypeName: ev.Name(), Err: cause}
}

// Log returns an exception policy that writes a structured diagnostic for
// every callback failure and never raises. A nil logger falls back to
// slog.Default().
func Log[E Event](logger *slog.Logger) ExceptionHandler[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &logHandler[E]{logger: logger}
}

type logHandler[E Event] struct {
	logger *slog.Logger
}

func (h *logHandler[E]) HandleException(ctx context.Context, ev E, cause error) error {
	h.logger.ErrorContext(ctx, "event callback failed",
		slog.String("event", ev.Name()),
		slog.String("error", cause.Error()),
	)
	return nil
}

// Suppress returns an exception policy that discards callback failures
// silently.
func Suppress[E Event]() ExceptionHandler[E] {
	return suppressHandler[E]{}
}

type suppressHandler[E Event] struct{}

func (suppressHandler[E]) HandleException(context.Context, E, error) error {
	return nil
}
