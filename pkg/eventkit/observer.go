package eventkit

import (
	"context"
	"time"
)

// TriggerRecord summarizes one completed trigger call. Observers receive
// it after the callback loop finishes, whether or not an error is about to
// be raised.
type TriggerRecord struct {
	// TriggerID uniquely identifies this trigger call.
	TriggerID string

	// TypeName is the name of the event type that was triggered.
	TypeName string

	// CallbacksRun is how many callbacks were invoked, including the one
	// that stopped propagation.
	CallbacksRun int

	// Cancelled is the event's cancelled flag at loop exit.
	Cancelled bool

	// Err is the *DispatchError about to be raised, or nil.
	Err error

	// Start is when the trigger call entered the callback loop.
	Start time.Time

	// Duration is how long the callback loop took.
	Duration time.Duration
}

// Observer is notified after every trigger of an event type it is
// attached to. Notification happens inside the type's critical section;
// observers must not trigger the same type or mutate its registry, and
// should return quickly.
type Observer interface {
	// TriggerCompleted is called once per trigger call.
	TriggerCompleted(ctx context.Context, rec TriggerRecord)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, rec TriggerRecord)

// TriggerCompleted implements Observer.
func (f ObserverFunc) TriggerCompleted(ctx context.Context, rec TriggerRecord) {
	f(ctx, rec)
}

// MultiObserver fans a trigger record out to several observers in order.
type MultiObserver []Observer

// TriggerCompleted implements Observer.
func (m MultiObserver) TriggerCompleted(ctx context.Context, rec TriggerRecord) {
	for _, o := range m {
		if o != nil {
			o.TriggerCompleted(ctx, rec)
		}
	}
}
