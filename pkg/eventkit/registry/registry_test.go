package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
	"github.com/randalmurphal/eventkit/pkg/eventkit/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newType(t *testing.T, name string) *eventkit.Type[*eventkit.Base] {
	t.Helper()
	typ, err := eventkit.New[*eventkit.Base](name).Build()
	require.NoError(t, err)
	return typ
}

func TestCatalog_RegisterGet(t *testing.T) {
	cat := registry.NewCatalog()

	joined := newType(t, "user.joined")
	left := newType(t, "user.left")

	require.NoError(t, cat.Register(joined))
	require.NoError(t, cat.Register(left))
	assert.Equal(t, 2, cat.Len())

	got, ok := cat.Get("user.joined")
	require.True(t, ok)
	assert.Same(t, eventkit.Descriptor(joined), got)

	_, ok = cat.Get("missing")
	assert.False(t, ok)
	assert.True(t, cat.Has("user.left"))
	assert.False(t, cat.Has("missing"))
}

func TestCatalog_DuplicateName(t *testing.T) {
	cat := registry.NewCatalog()

	first := newType(t, "user.joined")
	require.NoError(t, cat.Register(first))

	// Even re-registering the same instance is rejected.
	assert.ErrorIs(t, cat.Register(first), registry.ErrDuplicateName)

	second := newType(t, "user.joined")
	assert.ErrorIs(t, cat.Register(second), registry.ErrDuplicateName)
	assert.Equal(t, 1, cat.Len())
}

func TestCatalog_RegisterInvalid(t *testing.T) {
	cat := registry.NewCatalog()

	assert.ErrorIs(t, cat.Register(nil), eventkit.ErrNilDescriptor)

	unnamed := newType(t, "")
	assert.ErrorIs(t, cat.Register(unnamed), registry.ErrEmptyName)
}

func TestCatalog_MustGet(t *testing.T) {
	cat := registry.NewCatalog()
	typ := newType(t, "user.joined")
	require.NoError(t, cat.Register(typ))

	assert.Same(t, eventkit.Descriptor(typ), cat.MustGet("user.joined"))
	assert.Panics(t, func() { cat.MustGet("missing") })
}

func TestCatalog_NamesOrdered(t *testing.T) {
	cat := registry.NewCatalog()

	names := []string{"c.event", "a.event", "b.event"}
	for _, name := range names {
		require.NoError(t, cat.Register(newType(t, name)))
	}

	assert.Equal(t, names, cat.Names(), "registration order, not sorted")
}

func TestCatalog_Range(t *testing.T) {
	cat := registry.NewCatalog()
	require.NoError(t, cat.Register(newType(t, "a")))
	require.NoError(t, cat.Register(newType(t, "b")))
	require.NoError(t, cat.Register(newType(t, "c")))

	var seen []string
	cat.Range(func(name string, d eventkit.Descriptor) bool {
		seen = append(seen, name)
		assert.Equal(t, name, d.Name())
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	seen = nil
	cat.Range(func(name string, _ eventkit.Descriptor) bool {
		seen = append(seen, name)
		return false
	})
	assert.Equal(t, []string{"a"}, seen, "early stop")
}

func TestCatalog_Concurrent(t *testing.T) {
	cat := registry.NewCatalog()

	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			typ, err := eventkit.New[*eventkit.Base](fmt.Sprintf("event.%d", id)).Build()
			if err != nil {
				return
			}
			_ = cat.Register(typ)
			_, _ = cat.Get(fmt.Sprintf("event.%d", id))
			_ = cat.Names()
			cat.Range(func(string, eventkit.Descriptor) bool { return true })
		}(i)
	}

	wg.Wait()
	assert.Equal(t, numGoroutines, cat.Len())
}
