// Package observability provides production-grade observability for
// eventkit: structured logging via slog, metrics and tracing via
// OpenTelemetry.
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds event dispatch context to a logger.
// Returns a new logger with event and trigger_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "user.joined", rec.TriggerID)
//	enriched.Info("handling") // includes event, trigger_id
func EnrichLogger(logger *slog.Logger, eventName, triggerID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event", eventName),
		slog.String("trigger_id", triggerID),
	)
}

// LogTriggerComplete logs a successful trigger.
func LogTriggerComplete(logger *slog.Logger, eventName string, callbacks int, durationMs float64, cancelled bool) {
	if logger == nil {
		return
	}
	logger.Debug("event triggered",
		slog.String("event", eventName),
		slog.Int("callbacks", callbacks),
		slog.Float64("duration_ms", durationMs),
		slog.Bool("cancelled", cancelled),
	)
}

// LogTriggerError logs a trigger that raised a dispatch failure.
func LogTriggerError(logger *slog.Logger, eventName string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("event dispatch failed",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCallbackError logs a single callback failure (used by logging
// exception policies and hosts that want per-callback diagnostics).
func LogCallbackError(logger *slog.Logger, eventName string, err error) {
	if logger == nil {
		return
	}
	logger.Error("event callback failed",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal append failure (non-fatal).
func LogJournalError(logger *slog.Logger, eventName string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("trigger journal append failed",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
