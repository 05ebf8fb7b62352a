package eventkit

import (
	"context"
	"reflect"
)

// Callback handles one event instance. A callback may fail with any error;
// the error is routed through the event type's exception policy and never
// aborts the callback loop on its own.
//
// Callbacks are tracked by identity for AddCallback/RemoveCallback:
// registering the same callback twice keeps a single registration.
// Implementations with a comparable dynamic type (the usual case: a
// pointer to a handler struct) compare by value identity.
type Callback[E Event] interface {
	// Handle is called when the event occurs.
	Handle(ctx context.Context, ev E) error
}

// CallbackFunc adapts a function to the Callback interface.
//
// Function values are compared by code pointer, so two CallbackFunc values
// created from the same function literal share one identity even when they
// close over different variables. Use a handler struct when per-instance
// identity matters.
type CallbackFunc[E Event] func(ctx context.Context, ev E) error

// Handle implements Callback.
func (f CallbackFunc[E]) Handle(ctx context.Context, ev E) error {
	return f(ctx, ev)
}

// sameCallback reports whether two callbacks share one registration
// identity.
func sameCallback[E Event](a, b Callback[E]) bool {
	if fa, ok := a.(CallbackFunc[E]); ok {
		fb, ok := b.(CallbackFunc[E])
		return ok && reflect.ValueOf(fa).Pointer() == reflect.ValueOf(fb).Pointer()
	}
	if _, ok := b.(CallbackFunc[E]); ok {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
