package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("eventkit")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartTriggerSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx := context.Background()
	ctx, span := StartTriggerSpan(ctx, "user.joined")
	require.NotNil(t, span)
	_ = ctx

	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	s := spans[0]
	assert.Equal(t, "eventkit.trigger", s.Name)

	var eventName string
	for _, attr := range s.Attributes {
		if attr.Key == "event.name" {
			eventName = attr.Value.AsString()
		}
	}
	assert.Equal(t, "user.joined", eventName)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	t.Run("records error status", func(t *testing.T) {
		exporter.Reset()

		_, span := StartTriggerSpan(context.Background(), "failing")
		EndSpanWithError(span, errors.New("dispatch failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		require.NotEmpty(t, spans[0].Events)
	})

	t.Run("records ok status", func(t *testing.T) {
		exporter.Reset()

		_, span := StartTriggerSpan(context.Background(), "fine")
		EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("tolerates nil span", func(t *testing.T) {
		EndSpanWithError(nil, errors.New("ignored"))
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := StartTriggerSpan(context.Background(), "annotated")
	AddSpanEvent(ctx, "callback.invoked")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	found := false
	for _, ev := range spans[0].Events {
		if ev.Name == "callback.invoked" {
			found = true
		}
	}
	assert.True(t, found, "Expected span event callback.invoked")
}

func TestSpanManager(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()
	require.NotNil(t, m)

	_, span := m.StartTriggerSpan(context.Background(), "managed")
	m.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "eventkit.trigger", spans[0].Name)
}
