package eventkit

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type describes one category of event: its accepted event kind E, its
// name, cancellation behavior, and exception policy. Configuration is
// frozen at Build; only the callback registry mutates afterwards.
//
// Types are identity objects. Two types with the same name are unrelated
// unless they are the same instance, and events bind to the instance they
// were created for, never to a name.
type Type[E Event] struct {
	name                   string
	kind                   reflect.Type
	cancellable            bool
	propagateWhenCancelled bool
	policy                 ExceptionHandler[E]
	observer               Observer

	// mu guards the callback registry and the trigger loop as one
	// critical section.
	mu        sync.Mutex
	callbacks []Callback[E]
}

// Compile-time interface check.
var _ Descriptor = (*Type[*Base])(nil)

// Builder configures a Type. Obtain one with New, chain option setters,
// and freeze with Build or MustBuild.
type Builder[E Event] struct {
	name                   string
	cancellable            bool
	propagateWhenCancelled bool
	policy                 ExceptionHandler[E]
	observer               Observer
	err                    error
}

// New starts building an event type with the given name. The accepted
// event kind is E. Defaults: not cancellable, propagates when cancelled,
// Rethrow exception policy, no observer.
func New[E Event](name string) *Builder[E] {
	return &Builder[E]{
		name:                   name,
		propagateWhenCancelled: true,
	}
}

// Cancellable sets whether events of this type may be cancelled.
func (b *Builder[E]) Cancellable(cancellable bool) *Builder[E] {
	b.cancellable = cancellable
	return b
}

// PropagateWhenCancelled sets whether subsequent callbacks are invoked
// after a callback cancels the event. Applies only to cancellable types.
func (b *Builder[E]) PropagateWhenCancelled(propagate bool) *Builder[E] {
	b.propagateWhenCancelled = propagate
	return b
}

// ExceptionHandler sets the exception policy for the type. A nil handler
// is invalid and surfaces as an error from Build.
func (b *Builder[E]) ExceptionHandler(h ExceptionHandler[E]) *Builder[E] {
	if h == nil {
		if b.err == nil {
			b.err = ErrNilHandler
		}
		return b
	}
	b.policy = h
	return b
}

// Observer attaches an observer notified after every trigger. Optional.
func (b *Builder[E]) Observer(o Observer) *Builder[E] {
	b.observer = o
	return b
}

// Build freezes the configuration into a Type with an empty callback
// registry.
func (b *Builder[E]) Build() (*Type[E], error) {
	if b.err != nil {
		return nil, b.err
	}
	policy := b.policy
	if policy == nil {
		policy = Rethrow[E]()
	}
	return &Type[E]{
		name:                   b.name,
		kind:                   reflect.TypeFor[E](),
		cancellable:            b.cancellable,
		propagateWhenCancelled: b.propagateWhenCancelled,
		policy:                 policy,
		observer:               b.observer,
	}, nil
}

// MustBuild is like Build but panics on configuration errors. Intended for
// package-level type declarations.
func (b *Builder[E]) MustBuild() *Type[E] {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the human-readable name of the type. Names are diagnostic
// and need not be unique.
func (t *Type[E]) Name() string {
	return t.name
}

// PayloadKind returns the Go type accepted for events of this type.
func (t *Type[E]) PayloadKind() reflect.Type {
	return t.kind
}

// Cancellable reports whether events of this type may be cancelled.
func (t *Type[E]) Cancellable() bool {
	return t.cancellable
}

// PropagatesWhenCancelled reports whether callbacks after a cancelling
// callback are still invoked.
func (t *Type[E]) PropagatesWhenCancelled() bool {
	return t.propagateWhenCancelled
}

// Accepts reports whether v is of a kind this type accepts.
func (t *Type[E]) Accepts(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t.kind)
}

// AddCallback registers a callback at the end of the invocation order.
// Registering an already-registered callback is a no-op; the registry has
// set semantics over insertion order. Returns ErrNilCallback for a nil
// callback.
//
// Safe to call concurrently with RemoveCallback and Trigger on the same
// type, but not from inside one of this type's own callbacks.
func (t *Type[E]) AddCallback(cb Callback[E]) error {
	if cb == nil {
		return ErrNilCallback
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.callbacks {
		if sameCallback(existing, cb) {
			return nil
		}
	}
	t.callbacks = append(t.callbacks, cb)
	return nil
}

// RemoveCallback removes a registered callback. Removing a callback that
// is not registered is a no-op, so the call is idempotent.
func (t *Type[E]) RemoveCallback(cb Callback[E]) {
	if cb == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.callbacks {
		if sameCallback(existing, cb) {
			t.callbacks = append(t.callbacks[:i], t.callbacks[i+1:]...)
			return
		}
	}
}

// Callbacks returns the number of registered callbacks.
func (t *Type[E]) Callbacks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.callbacks)
}

// Trigger invokes the type's callbacks in registration order against ev
// and returns the same event instance, possibly cancelled.
//
// ev must have been created for this exact Type instance; an event bound
// to a different instance fails with a *BindError wrapping ErrForeignEvent
// before any callback runs, even when the two types share a name.
//
// A callback error is routed to the type's exception policy. If the policy
// raises, the raised error is accumulated and the loop continues; the
// first raised error becomes the *DispatchError returned after the loop,
// with later raised errors attached as Suppressed. Errors never cut the
// loop short. After every callback the engine evaluates ev.MustPropagate
// and stops when it reports false.
//
// The whole call runs inside the type's single mutex, which is not
// reentrant: a callback that triggers the same type, or registers or
// removes callbacks on it, deadlocks. Triggering a different type from a
// callback is fine.
func (t *Type[E]) Trigger(ctx context.Context, ev E) (E, error) {
	if isNilEvent(ev) {
		return ev, &BindError{TypeName: t.name, Err: ErrNilEvent}
	}
	if ev.Descriptor() != Descriptor(t) {
		return ev, &BindError{TypeName: t.name, Err: ErrForeignEvent}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	var primary *DispatchError
	run := 0
	for _, cb := range t.callbacks {
		if err := cb.Handle(ctx, ev); err != nil {
			if raised := t.policy.HandleException(ctx, ev, err); raised != nil {
				if primary == nil {
					if de, ok := raised.(*DispatchError); ok {
						primary = de
					} else {
						primary = &DispatchError{TypeName: t.name, Err: raised}
					}
				} else {
					primary.Suppressed = append(primary.Suppressed, raised)
				}
			}
		}
		run++
		if !ev.MustPropagate() {
			break
		}
	}

	if t.observer != nil {
		rec := TriggerRecord{
			TriggerID:    uuid.New().String(),
			TypeName:     t.name,
			CallbacksRun: run,
			Cancelled:    ev.Cancelled(),
			Start:        start,
			Duration:     time.Since(start),
		}
		if primary != nil {
			rec.Err = primary
		}
		t.observer.TriggerCompleted(ctx, rec)
	}

	if primary != nil {
		return ev, primary
	}
	return ev, nil
}

// TriggerWith builds the event via factory and delegates to Trigger. The
// factory receives this type, so construction sites cannot mismatch the
// type and the event kind. A factory error fails the call before any
// callback runs.
func (t *Type[E]) TriggerWith(ctx context.Context, factory func(t *Type[E]) (E, error)) (E, error) {
	ev, err := factory(t)
	if err != nil {
		return ev, err
	}
	return t.Trigger(ctx, ev)
}

// isNilEvent reports whether ev is nil or a typed nil pointer.
func isNilEvent(ev any) bool {
	if ev == nil {
		return true
	}
	rv := reflect.ValueOf(ev)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
