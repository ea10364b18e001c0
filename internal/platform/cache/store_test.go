package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-standings/internal/platform/resilience"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string]()
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "england:current", time.Minute, loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueWithinTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore[string]().WithClock(func() time.Time { return now })
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", 5*time.Minute, loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	now = now.Add(4*time.Minute + 59*time.Second)
	if _, err := store.GetOrLoad(context.Background(), "k", 5*time.Minute, loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore[int]().WithClock(func() time.Time { return now })
	var calls atomic.Int32

	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, _ := store.GetOrLoad(context.Background(), "k", time.Minute, loader)
	now = now.Add(time.Minute)
	second, err := store.GetOrLoad(context.Background(), "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}

	if first != 1 || second != 2 {
		t.Fatalf("expected reload after expiry, got first=%d second=%d", first, second)
	}
}

func TestStore_GetOrLoad_FailureKeepsStaleEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore[string]().WithClock(func() time.Time { return now })

	if _, err := store.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) (string, error) {
		return "old", nil
	}); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	now = now.Add(2 * time.Minute)
	upstreamDown := errors.New("upstream down")
	_, err := store.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) (string, error) {
		return "", upstreamDown
	})
	if !errors.Is(err, upstreamDown) {
		t.Fatalf("expected loader error, got %v", err)
	}

	value, storedAt, ok := store.Peek("k")
	if !ok || value != "old" {
		t.Fatalf("expected stale entry to survive, got ok=%v value=%q", ok, value)
	}
	if !storedAt.Equal(now.Add(-2 * time.Minute)) {
		t.Fatalf("stale entry timestamp changed: %s", storedAt)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry, got %d", store.Len())
	}
}

func TestStore_GetOrLoad_PanickingLoaderFailsWaiters(t *testing.T) {
	t.Parallel()

	store := NewStore[string]()
	release := make(chan struct{})
	leaderDone := make(chan any, 1)

	go func() {
		defer func() { leaderDone <- recover() }()
		_, _ = store.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) (string, error) {
			<-release
			panic("decode exploded")
		})
	}()
	waitUntil(t, func() bool { return store.flight.InFlight() == 1 })

	waiterErr := make(chan error, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) (string, error) {
			return "unexpected", nil
		})
		if err == nil {
			err = fmt.Errorf("waiter got value %q without error", v)
		}
		waiterErr <- err
	}()
	waitUntil(t, func() bool { return store.flight.Waiters("k") == 1 })
	close(release)

	if recovered := <-leaderDone; recovered == nil {
		t.Fatalf("expected loader panic to reach the leader")
	}
	if err := <-waiterErr; !errors.Is(err, resilience.ErrCallPanicked) {
		t.Fatalf("expected panic error for waiter, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing cached after panic, got %d entries", store.Len())
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStore_Get_ZeroTTLNeverHits(t *testing.T) {
	t.Parallel()

	store := NewStore[string]()
	store.Set(context.Background(), "k", "v")

	if _, ok := store.Get(context.Background(), "k", 0); ok {
		t.Fatalf("expected miss with zero ttl")
	}
}

func TestStore_RefreshReplacesFreshEntry(t *testing.T) {
	t.Parallel()

	store := NewStore[int]()
	store.Set(context.Background(), "k", 1)

	got, err := store.Refresh(context.Background(), "k", func(context.Context) (int, error) {
		return 2, nil
	})
	if err != nil || got != 2 {
		t.Fatalf("expected refreshed value 2, got %d err=%v", got, err)
	}
	if value, ok := store.Get(context.Background(), "k", time.Hour); !ok || value != 2 {
		t.Fatalf("expected cached value 2, got %d ok=%v", value, ok)
	}

	if _, err := store.Refresh(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error without key and loader")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
