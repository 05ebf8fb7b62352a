package eventkit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRethrow_WrapsCause(t *testing.T) {
	typ, err := eventkit.New[*eventkit.Base]("rethrow.test").Build()
	require.NoError(t, err)

	cause := errors.New("callback blew up")
	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)

	raised := eventkit.Rethrow[*eventkit.Base]().HandleException(context.Background(), ev, cause)

	var de *eventkit.DispatchError
	require.ErrorAs(t, raised, &de)
	assert.Equal(t, "rethrow.test", de.TypeName)
	assert.ErrorIs(t, raised, cause)
}

func TestLog_WritesDiagnosticAndNeverRaises(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	typ, err := eventkit.New[*eventkit.Base]("log.test").
		ExceptionHandler(eventkit.Log[*eventkit.Base](logger)).
		Build()
	require.NoError(t, err)

	require.NoError(t, typ.AddCallback(eventkit.CallbackFunc[*eventkit.Base](
		func(context.Context, *eventkit.Base) error {
			return errors.New("transient failure")
		},
	)))

	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)
	_, err = typ.Trigger(context.Background(), ev)
	require.NoError(t, err, "Log policy never raises")

	out := buf.String()
	assert.Contains(t, out, "log.test")
	assert.Contains(t, out, "transient failure")
}

func TestLog_NilLoggerFallsBackToDefault(t *testing.T) {
	h := eventkit.Log[*eventkit.Base](nil)
	require.NotNil(t, h)

	typ, err := eventkit.New[*eventkit.Base]("log.default").Build()
	require.NoError(t, err)
	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)

	assert.NoError(t, h.HandleException(context.Background(), ev, errors.New("oops")))
}

func TestSuppress_DiscardsFailures(t *testing.T) {
	typ, err := eventkit.New[*eventkit.Base]("suppress.unit").Build()
	require.NoError(t, err)
	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)

	raised := eventkit.Suppress[*eventkit.Base]().HandleException(context.Background(), ev, errors.New("gone"))
	assert.NoError(t, raised)
}

func TestCustomPolicy_PrewrappedEnvelopePassesThrough(t *testing.T) {
	prewrapped := &eventkit.DispatchError{TypeName: "custom", Err: errors.New("already wrapped")}

	typ, err := eventkit.New[*eventkit.Base]("passthrough.test").
		ExceptionHandler(eventkit.ExceptionHandlerFunc[*eventkit.Base](
			func(context.Context, *eventkit.Base, error) error {
				return prewrapped
			},
		)).
		Build()
	require.NoError(t, err)

	require.NoError(t, typ.AddCallback(eventkit.CallbackFunc[*eventkit.Base](
		func(context.Context, *eventkit.Base) error {
			return errors.New("trigger the policy")
		},
	)))

	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)
	_, err = typ.Trigger(context.Background(), ev)

	// The envelope raised by the policy is reused, not re-wrapped.
	assert.Same(t, prewrapped, err)
}

func TestCustomPolicy_RaisedErrorIsWrapped(t *testing.T) {
	substitute := errors.New("policy chose a different error")

	typ, err := eventkit.New[*eventkit.Base]("wrap.test").
		ExceptionHandler(eventkit.ExceptionHandlerFunc[*eventkit.Base](
			func(context.Context, *eventkit.Base, error) error {
				return substitute
			},
		)).
		Build()
	require.NoError(t, err)

	require.NoError(t, typ.AddCallback(eventkit.CallbackFunc[*eventkit.Base](
		func(context.Context, *eventkit.Base) error {
			return errors.New("original")
		},
	)))

	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)
	_, err = typ.Trigger(context.Background(), ev)

	var de *eventkit.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "wrap.test", de.TypeName)
	assert.ErrorIs(t, err, substitute)
}

func TestCustomPolicy_InvokedOncePerFailingCallback(t *testing.T) {
	var causes []string

	typ, err := eventkit.New[*eventkit.Base]("count.test").
		ExceptionHandler(eventkit.ExceptionHandlerFunc[*eventkit.Base](
			func(_ context.Context, _ *eventkit.Base, cause error) error {
				causes = append(causes, cause.Error())
				return nil
			},
		)).
		Build()
	require.NoError(t, err)

	fail := func(msg string) eventkit.Callback[*eventkit.Base] {
		return &failingCallback{err: errors.New(msg)}
	}
	require.NoError(t, typ.AddCallback(fail("first")))
	require.NoError(t, typ.AddCallback(&passingCallback{}))
	require.NoError(t, typ.AddCallback(fail("second")))

	ev, err := eventkit.NewBasic(typ)
	require.NoError(t, err)
	_, err = typ.Trigger(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, causes)
}

type failingCallback struct{ err error }

func (c *failingCallback) Handle(context.Context, *eventkit.Base) error { return c.err }

type passingCallback struct{}

func (*passingCallback) Handle(context.Context, *eventkit.Base) error { return nil }
