/*
Package eventkit provides typed, synchronous, in-process event dispatch.

# Overview

eventkit is a small library for wiring ordered callbacks to strongly-typed
event categories. Each category is described by a Type: an immutable
configuration object that knows its accepted event kind, its name, whether
events may be cancelled, whether cancelled events keep propagating, and
which exception policy handles callback failures. Triggering a Type invokes
its callbacks in registration order on the calling goroutine, applying
cancellation and propagation rules as it goes.

The library is built around:
  - Type-safe generics for event payloads
  - Reference identity for event-to-type binding
  - Pluggable exception policies (Rethrow, Log, Suppress)
  - OpenTelemetry and slog integration via the observability subpackage
  - Optional persistent trigger journaling via the journal subpackage

# Basic Usage

Declare an event type once, register callbacks, and trigger:

	type UserJoined struct {
	    eventkit.Base
	    User string
	}

	var JoinType = eventkit.New[*UserJoined]("user.joined").MustBuild()

	func main() {
	    JoinType.AddCallback(eventkit.CallbackFunc[*UserJoined](
	        func(ctx context.Context, ev *UserJoined) error {
	            fmt.Println("joined:", ev.User)
	            return nil
	        },
	    ))

	    ev := &UserJoined{User: "amara"}
	    ev.Base = eventkit.MustBase(JoinType, ev)

	    if _, err := JoinType.Trigger(context.Background(), ev); err != nil {
	        log.Fatal(err)
	    }
	}

# Cancellation

Cancellable types let callbacks flip a cancelled flag on the event. With
PropagateWhenCancelled(false), cancelling stops the remaining callbacks:

	t := eventkit.New[*eventkit.Base]("request.incoming").
	    Cancellable(true).
	    PropagateWhenCancelled(false).
	    MustBuild()

Callback errors never stop the loop by themselves; only the event's
MustPropagate signal does. Custom event types may shadow MustPropagate to
implement their own propagation strategy.

# Exception Policies

Each Type routes callback failures through one policy. The default,
Rethrow, collects failures and surfaces them to the Trigger caller as a
single *DispatchError after all eligible callbacks have run. Log writes a
structured diagnostic and keeps going; Suppress discards failures
entirely.

# Concurrency

Each Type owns one mutex guarding both its callback registry and its
trigger loop: at most one Trigger, AddCallback, or RemoveCallback call on
a given Type runs at a time. Distinct Types are fully independent. The
mutex is not reentrant; see Trigger for the implications.
*/
package eventkit
