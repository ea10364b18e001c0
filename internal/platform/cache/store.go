package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/league-standings/internal/platform/resilience"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Store is a process-local TTL cache. Freshness is decided on read against the
// TTL supplied by the caller; entries are never swept and the map is unbounded.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	flight  resilience.SingleFlight[V]
	now     func() time.Time
}

func NewStore[V any]() *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, mainly for tests.
func (s *Store[V]) WithClock(now func() time.Time) *Store[V] {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns the value for key when it was stored less than ttl ago.
func (s *Store[V]) Get(_ context.Context, key string, ttl time.Duration) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.fresh(e, ttl) {
		return zero, false
	}

	return e.value, true
}

// Peek returns the stored value regardless of age.
func (s *Store[V]) Peek(key string) (V, time.Time, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return e.value, e.storedAt, ok
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, storedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the fresh cached value for key or runs loader to produce it.
// Concurrent misses on one key share a single loader call. A failing loader
// leaves any previous entry for key in place.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key, ttl); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key, ttl); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	return value, nil
}

// Refresh runs loader even when a fresh entry exists. It joins an in-flight load for the
// same key instead of starting a second one.
func (s *Store[V]) Refresh(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil || key == "" {
		return zero, fmt.Errorf("key and loader are required")
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}

func (s *Store[V]) fresh(e entry[V], ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return s.now().Sub(e.storedAt) < ttl
}
