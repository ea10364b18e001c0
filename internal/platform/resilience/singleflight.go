package resilience

import (
	"sync"

	crerr "github.com/cockroachdb/errors"
)

// ErrCallPanicked is returned to callers that shared a call whose function panicked.
var ErrCallPanicked = crerr.New("singleflight call panicked")

// SingleFlight collapses concurrent calls sharing a key into one execution.
// Callers that arrive while a call is in flight wait for it and share its result.
type SingleFlight[V any] struct {
	mu    sync.Mutex
	calls map[string]*flight[V]
}

type flight[V any] struct {
	done    chan struct{}
	val     V
	err     error
	waiters int
}

// Do runs fn once per key at a time. shared reports whether the result was
// produced by another caller's execution. If fn panics, waiting callers get
// ErrCallPanicked and the panic continues in the executing caller.
func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[V])
	}
	if f, ok := g.calls[key]; ok {
		f.waiters++
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight[V]{done: make(chan struct{})}
	g.calls[key] = f
	g.mu.Unlock()

	func() {
		defer func() {
			recovered := recover()
			if recovered != nil {
				var zero V
				f.val = zero
				f.err = crerr.Wrapf(ErrCallPanicked, "key %q: %v", key, recovered)
			}
			g.mu.Lock()
			delete(g.calls, key)
			g.mu.Unlock()
			close(f.done)
			if recovered != nil {
				panic(recovered)
			}
		}()
		f.val, f.err = fn()
	}()

	return f.val, f.err, f.waiters > 0
}

// InFlight reports how many distinct keys are currently executing.
func (g *SingleFlight[V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// Waiters reports how many callers are blocked on the in-flight call for key.
func (g *SingleFlight[V]) Waiters(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.calls[key]; ok {
		return f.waiters
	}
	return 0
}
