// Package registry provides a name-indexed catalog of event types.
//
// The dispatch engine binds events to type instances by identity and never
// assumes names are unique. The catalog is the optional host-level layer
// that does enforce unique names, so application code can look types up by
// a stable string.
package registry

import (
	"errors"
	"sync"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
)

// Sentinel errors for catalog operations.
var (
	// ErrDuplicateName indicates a type with the same name is already
	// registered.
	ErrDuplicateName = errors.New("event type name already registered")

	// ErrEmptyName indicates the type has no name to index by.
	ErrEmptyName = errors.New("event type name is empty")
)

// Catalog is a thread-safe, name-unique index of event type descriptors.
// It uses sync.RWMutex for read-heavy lookup workloads.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]eventkit.Descriptor
	order   []string
}

// NewCatalog creates a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]eventkit.Descriptor),
	}
}

// Register adds a descriptor to the catalog, keyed by its name.
// Registering a second descriptor under an already-taken name fails with
// ErrDuplicateName, even when it is the same instance.
func (c *Catalog) Register(d eventkit.Descriptor) error {
	if d == nil {
		return eventkit.ErrNilDescriptor
	}
	name := d.Name()
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return ErrDuplicateName
	}
	c.entries[name] = d
	c.order = append(c.order, name)
	return nil
}

// Get returns the descriptor for a name and whether it exists.
func (c *Catalog) Get(name string) (eventkit.Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[name]
	return d, ok
}

// MustGet returns the descriptor for a name, panicking if not found.
func (c *Catalog) MustGet(name string) eventkit.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[name]
	if !ok {
		panic("registry: event type not found: " + name)
	}
	return d
}

// Has returns true if the name exists in the catalog.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Names returns all registered names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Len returns the number of registered descriptors.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Range iterates over descriptors in registration order. If fn returns
// false, iteration stops.
//
// Range iterates over a snapshot, so it is safe to call Register during
// iteration without affecting the current iteration.
func (c *Catalog) Range(fn func(name string, d eventkit.Descriptor) bool) {
	c.mu.RLock()
	names := make([]string, len(c.order))
	copy(names, c.order)
	snapshot := make(map[string]eventkit.Descriptor, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	for _, name := range names {
		if !fn(name, snapshot[name]) {
			return
		}
	}
}
