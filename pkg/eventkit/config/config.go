// Package config builds event types from declarative definitions.
//
// Definitions are plain data (YAML or JSON) describing the name and
// dispatch behaviour of each event type, so a host application can declare
// its event surface in a file instead of wiring builders by hand.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
	"github.com/randalmurphal/eventkit/pkg/eventkit/registry"
)

// Exception policy names accepted in definitions.
const (
	PolicyRethrow  = "rethrow"
	PolicyLog      = "log"
	PolicySuppress = "suppress"
)

// Validation errors.
var (
	// ErrMissingName indicates a definition without a name.
	ErrMissingName = errors.New("event definition missing name")

	// ErrUnknownPolicy indicates a policy name outside rethrow, log, suppress.
	ErrUnknownPolicy = errors.New("unknown exception policy")
)

// Definition describes one event type.
//
// PropagateWhenCancelled is a pointer so an absent field keeps the engine
// default (true) while an explicit false is honoured.
type Definition struct {
	Name                   string `yaml:"name" json:"name"`
	Cancellable            bool   `yaml:"cancellable" json:"cancellable"`
	PropagateWhenCancelled *bool  `yaml:"propagate_when_cancelled,omitempty" json:"propagate_when_cancelled,omitempty"`
	Policy                 string `yaml:"policy,omitempty" json:"policy,omitempty"`
}

// Document is the top-level shape of a definitions file.
type Document struct {
	Events []Definition `yaml:"events" json:"events"`
}

// Validate checks that the definition is buildable.
func (d Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	switch d.Policy {
	case "", PolicyRethrow, PolicyLog, PolicySuppress:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, d.Policy)
	}
}

// Build constructs an event type for payload E from the definition.
// The logger is used by the "log" policy and may be nil, in which case
// the default slog logger is used. An empty policy means "rethrow".
func Build[E eventkit.Event](def Definition, logger *slog.Logger) (*eventkit.Type[E], error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("definition %q: %w", def.Name, err)
	}

	b := eventkit.New[E](def.Name).Cancellable(def.Cancellable)
	if def.PropagateWhenCancelled != nil {
		b = b.PropagateWhenCancelled(*def.PropagateWhenCancelled)
	}

	switch def.Policy {
	case PolicyLog:
		b = b.ExceptionHandler(eventkit.Log[E](logger))
	case PolicySuppress:
		b = b.ExceptionHandler(eventkit.Suppress[E]())
	}

	typ, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", def.Name, err)
	}
	return typ, nil
}

// BuildCatalog builds every definition in the document as a basic event
// type and registers it in a fresh catalog. Payloads are *eventkit.Base;
// callers needing typed payloads should use Build directly.
func BuildCatalog(doc Document, logger *slog.Logger) (*registry.Catalog, error) {
	cat := registry.NewCatalog()
	for _, def := range doc.Events {
		typ, err := Build[*eventkit.Base](def, logger)
		if err != nil {
			return nil, err
		}
		if err := cat.Register(typ); err != nil {
			return nil, fmt.Errorf("register %q: %w", def.Name, err)
		}
	}
	return cat, nil
}
