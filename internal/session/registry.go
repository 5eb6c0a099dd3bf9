// Package session tracks one result store per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyscout/skyscout/internal/store"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 30 * time.Minute

type entry struct {
	store    *store.Store
	lastSeen time.Time
}

// Registry owns the live session stores. Sessions expire after ttl of
// inactivity; Get refreshes the clock.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	factory  func() *store.Store
	now      func() time.Time
}

func NewRegistry(factory func() *store.Store, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Create makes a fresh store and returns its session id.
func (r *Registry) Create() (string, *store.Store) {
	id := uuid.NewString()
	st := r.factory()

	r.mu.Lock()
	r.sessions[id] = &entry{store: st, lastSeen: r.now()}
	r.mu.Unlock()
	return id, st
}

// Get returns the store for a session id, refreshing its expiry.
func (r *Registry) Get(id string) (*store.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were
// removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps on the given interval until ctx is cancelled.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}
