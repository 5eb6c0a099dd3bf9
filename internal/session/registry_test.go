package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyscout/skyscout/internal/store"
)

func newTestRegistry(ttl time.Duration) (*Registry, *time.Time) {
	r := NewRegistry(func() *store.Store { return store.New(nil) }, ttl)
	clock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestCreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	id, st := r.Create()
	require.NotEmpty(t, id)
	require.NotNil(t, st)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, st, got)

	_, ok = r.Get("no-such-session")
	assert.False(t, ok)
}

func TestCreate_UniqueIDs(t *testing.T) {
	r, _ := newTestRegistry(time.Minute)

	a, _ := r.Create()
	b, _ := r.Create()
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, r.Len())
}

func TestSweep_DropsIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(10 * time.Minute)

	stale, _ := r.Create()

	*clock = clock.Add(11 * time.Minute)
	fresh, _ := r.Create()

	removed := r.Sweep()
	assert.Equal(t, 1, removed)

	_, ok := r.Get(stale)
	assert.False(t, ok)
	_, ok = r.Get(fresh)
	assert.True(t, ok)
}

func TestGet_RefreshesExpiry(t *testing.T) {
	r, clock := newTestRegistry(10 * time.Minute)

	id, _ := r.Create()

	*clock = clock.Add(9 * time.Minute)
	_, ok := r.Get(id)
	require.True(t, ok)

	// Another 9 minutes would have expired the original timestamp; the Get
	// above reset it.
	*clock = clock.Add(9 * time.Minute)
	assert.Equal(t, 0, r.Sweep())
	_, ok = r.Get(id)
	assert.True(t, ok)
}

func TestNewRegistry_NonPositiveTTLFallsBack(t *testing.T) {
	r := NewRegistry(func() *store.Store { return store.New(nil) }, 0)
	assert.Equal(t, DefaultTTL, r.ttl)
}
