package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory journal store for testing and
// short-lived processes. Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
	closed  bool
}

// NewMemoryStore creates a new in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.byID[entry.TriggerID] = len(m.entries)
	m.entries = append(m.entries, entry)
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, triggerID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	idx, ok := m.byID[triggerID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return m.entries[idx], nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, eventType string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	var out []Entry
	for _, e := range m.entries {
		if eventType != "" && e.EventType != eventType {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// CountByType implements Store.
func (m *MemoryStore) CountByType(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	counts := make(map[string]int)
	for _, e := range m.entries {
		counts[e.EventType]++
	}
	return counts, nil
}

// Prune implements Store.
func (m *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStoreClosed
	}

	kept := m.entries[:0]
	removed := 0
	for _, e := range m.entries {
		if e.StartedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept

	// Rebuild the index after compaction.
	m.byID = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.byID[e.TriggerID] = i
	}
	return removed, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	m.byID = nil
	return nil
}

// Len returns the total number of journaled entries.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
