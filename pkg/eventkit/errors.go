package eventkit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors for type construction and callback registration.
var (
	// ErrNilCallback indicates AddCallback was called with a nil callback.
	ErrNilCallback = errors.New("nil callback")

	// ErrNilHandler indicates the builder was given a nil exception handler.
	ErrNilHandler = errors.New("nil exception handler")

	// ErrNilDescriptor indicates an event was constructed without a type.
	ErrNilDescriptor = errors.New("nil event type")
)

// Sentinel errors for event binding and dispatch.
var (
	// ErrPayloadKind indicates an event value is not of the kind its type accepts.
	ErrPayloadKind = errors.New("event kind not accepted by type")

	// ErrForeignEvent indicates Trigger was given an event created for a
	// different type instance.
	ErrForeignEvent = errors.New("event not created for this type")

	// ErrNotCancellable indicates a cancel attempt on an event whose type
	// is not cancellable.
	ErrNotCancellable = errors.New("event not cancellable")

	// ErrNilEvent indicates Trigger was given a nil event.
	ErrNilEvent = errors.New("nil event")
)

// BindError reports a failed event-to-type binding: either the event value
// is of a kind the type does not accept, or the event belongs to a
// different type instance.
type BindError struct {
	// TypeName is the name of the event type involved.
	TypeName string
	// Want is the kind the type accepts, if known.
	Want reflect.Type
	// Got is the kind of the offending value, if known.
	Got reflect.Type
	// Err is the underlying sentinel (ErrPayloadKind, ErrForeignEvent, ...).
	Err error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	if e.Want != nil && e.Got != nil {
		return fmt.Sprintf("event type %q: %v: want %s, got %s", e.TypeName, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("event type %q: %v", e.TypeName, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *BindError) Unwrap() error {
	return e.Err
}

// DispatchError is the aggregate failure raised by Trigger when the active
// exception policy chooses to raise. The first error the policy raised
// during the trigger call is the direct cause; any further errors raised
// during the same call are attached as Suppressed, in occurrence order.
type DispatchError struct {
	// TypeName is the name of the event type being triggered.
	TypeName string
	// Err is the first error raised by the exception policy.
	Err error
	// Suppressed holds subsequent policy-raised errors from the same
	// trigger call.
	Suppressed []error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dispatching event %q: %v", e.TypeName, e.Err)
	if n := len(e.Suppressed); n > 0 {
		fmt.Fprintf(&b, " (and %d suppressed)", n)
	}
	return b.String()
}

// Unwrap returns the direct cause for errors.Is/As support.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
