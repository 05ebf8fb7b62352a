package eventkit

import (
	"context"
	"reflect"
)

// Descriptor is the read-only view of an event type that events bind to.
// It is implemented by *Type[E]; two descriptors are the same type only if
// they are the same instance. Names are diagnostic, not identity.
type Descriptor interface {
	// Name returns the human-readable name of the event type.
	Name() string

	// PayloadKind returns the Go type accepted for events of this type.
	PayloadKind() reflect.Type

	// Cancellable reports whether events of this type may be cancelled.
	Cancellable() bool

	// PropagatesWhenCancelled reports whether callbacks after a
	// cancelling callback are still invoked.
	PropagatesWhenCancelled() bool

	// Accepts reports whether v is of a kind this type accepts.
	Accepts(v any) bool
}

// Event is the capability set the dispatch engine needs from an event
// instance. Base provides the default implementation; concrete event
// structs embed Base and may shadow MustPropagate to customize
// propagation.
type Event interface {
	// Descriptor returns the type this event was created for.
	Descriptor() Descriptor

	// Name returns the name of the event's type.
	Name() string

	// Is reports whether this event belongs to the given type. The
	// reference may be a Descriptor (matched by identity) or a string
	// (matched against the type name).
	Is(ref any) bool

	// SetCancelled sets the cancelled flag. Returns ErrNotCancellable if
	// the event's type is not cancellable, even when clearing the flag.
	SetCancelled(cancelled bool) error

	// Cancel sets the cancelled flag to true.
	Cancel() error

	// Cancelled reports whether the event is cancelled. Always false for
	// events of non-cancellable types.
	Cancelled() bool

	// MustPropagate reports whether subsequent callbacks must still be
	// invoked after the current one returns.
	MustPropagate() bool
}

// Base is the default Event implementation. Embed it in a concrete event
// struct, or use it directly via NewBasic for events that carry no extra
// fields.
//
// A Base is bound to exactly one type at construction and never rebound.
type Base struct {
	desc      Descriptor
	cancelled bool
}

// NewBase binds a concrete event value to its type. self is the event
// under construction (usually a pointer to the struct embedding the
// returned Base); its kind must be accepted by d.
//
// Returns a *BindError wrapping ErrPayloadKind when the kind is not
// accepted, or ErrNilDescriptor when d is nil.
func NewBase(d Descriptor, self any) (Base, error) {
	if d == nil {
		return Base{}, &BindError{Err: ErrNilDescriptor}
	}
	if !d.Accepts(self) {
		var got reflect.Type
		if self != nil {
			got = reflect.TypeOf(self)
		}
		return Base{}, &BindError{
			TypeName: d.Name(),
			Want:     d.PayloadKind(),
			Got:      got,
			Err:      ErrPayloadKind,
		}
	}
	return Base{desc: d}, nil
}

// MustBase is like NewBase but panics on binding failure. Intended for
// event construction sites where the kinds are statically known to match.
func MustBase(d Descriptor, self any) Base {
	b, err := NewBase(d, self)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBasic constructs a plain *Base event for types that accept *Base.
func NewBasic(d Descriptor) (*Base, error) {
	ev := &Base{}
	b, err := NewBase(d, ev)
	if err != nil {
		return nil, err
	}
	*ev = b
	return ev, nil
}

// Descriptor returns the type this event was created for.
func (b *Base) Descriptor() Descriptor {
	return b.desc
}

// Name returns the name of the event's type.
func (b *Base) Name() string {
	if b.desc == nil {
		return ""
	}
	return b.desc.Name()
}

// Is reports whether this event belongs to the given type. A Descriptor
// reference matches by instance identity; a string matches the type name.
func (b *Base) Is(ref any) bool {
	switch r := ref.(type) {
	case Descriptor:
		return b.desc == r
	case string:
		return b.desc != nil && b.desc.Name() == r
	default:
		return false
	}
}

// SetCancelled sets the cancelled flag. Returns ErrNotCancellable when the
// event's type is not cancellable, even when setting the flag to false.
func (b *Base) SetCancelled(cancelled bool) error {
	if b.desc == nil || !b.desc.Cancellable() {
		return ErrNotCancellable
	}
	b.cancelled = cancelled
	return nil
}

// Cancel sets the cancelled flag to true.
func (b *Base) Cancel() error {
	return b.SetCancelled(true)
}

// Cancelled reports whether the event is cancelled.
func (b *Base) Cancelled() bool {
	return b.cancelled
}

// MustPropagate implements the default propagation rule: propagate unless
// the event is cancelled and its type disabled propagation for cancelled
// events. Concrete event types may shadow this method to supply a custom
// strategy; the engine always dispatches through the outermost
// implementation.
func (b *Base) MustPropagate() bool {
	if b.desc == nil || b.desc.PropagatesWhenCancelled() {
		return true
	}
	return !b.cancelled
}

// IfType runs fn when ev belongs to t, passing the event narrowed to t's
// event kind. Events of other types are ignored and return nil.
func IfType[E Event](ctx context.Context, ev Event, t *Type[E], fn func(ctx context.Context, ev E) error) error {
	if ev == nil || t == nil {
		return nil
	}
	if !ev.Is(Descriptor(t)) {
		return nil
	}
	typed, ok := ev.(E)
	if !ok {
		return nil
	}
	return fn(ctx, typed)
}
