// Package memo provides per-key memoization with single-flight semantics.
//
// A Group runs the computation for a key at most once at a time and keeps
// its result forever. Concurrent callers for the same key share the running
// computation. Each caller can give up waiting through its own context; the
// computation is cancelled only when every caller waiting for it has left,
// and a cancelled computation never publishes a result.
package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRecursiveCall is returned when a computation asks, directly or through
// other keys of the same Group, for its own key.
var ErrRecursiveCall = errors.New("memo: recursive request for a key that is being computed")

// Func computes the value of a key. ctx is detached from the caller that
// triggered the computation and is cancelled once nobody waits any more.
type Func[V any] func(ctx context.Context) (V, error)

type call[V any] struct {
	done      chan struct{}
	cancel    context.CancelFunc
	waiters   int
	finished  bool
	completed bool
	abandoned bool
	val       V
	err       error
}

// Group memoizes results per key. The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*call[V]
}

// Do returns the value for key, running fn if no result is memoized and no
// computation is in flight. fresh reports whether this call started the
// computation whose result it returns.
//
// If ctx ends first, Do returns ctx.Err() at once. Errors other than
// context cancellation are memoized like values.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn Func[V]) (v V, fresh bool, err error) {
	if inChain(ctx, g, key) {
		return v, false, ErrRecursiveCall
	}

	for {
		if err := ctx.Err(); err != nil {
			return v, false, err
		}

		g.mu.Lock()
		if g.calls == nil {
			g.calls = make(map[K]*call[V])
		}
		c, ok := g.calls[key]

		if ok && c.abandoned {
			// The previous computation is shutting down; wait for it so two
			// computations for one key never overlap.
			g.mu.Unlock()
			select {
			case <-c.done:
				continue
			case <-ctx.Done():
				return v, false, ctx.Err()
			}
		}

		if ok && c.completed {
			g.mu.Unlock()
			return c.val, false, c.err
		}

		started := false
		if !ok {
			c = g.start(ctx, key, fn)
			started = true
		}
		c.waiters++
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, started, c.err
		case <-ctx.Done():
			g.leave(c)
			return v, false, ctx.Err()
		}
	}
}

// start launches the computation for key. g.mu must be held.
func (g *Group[K, V]) start(ctx context.Context, key K, fn Func[V]) *call[V] {
	cctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cctx = withChain(cctx, g, key)

	c := &call[V]{done: make(chan struct{}), cancel: cancel}
	g.calls[key] = c

	go func() {
		val, err := run(cctx, fn)
		cancel()

		g.mu.Lock()
		defer g.mu.Unlock()
		c.val, c.err = val, err
		c.finished = true
		if c.abandoned || isCancellation(err) {
			if g.calls[key] == c {
				delete(g.calls, key)
			}
		} else {
			c.completed = true
		}
		close(c.done)
	}()
	return c
}

// leave unregisters a waiter that gave up. The last one to leave cancels
// the computation.
func (g *Group[K, V]) leave(c *call[V]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.waiters--
	if c.waiters == 0 && !c.finished {
		c.abandoned = true
		c.cancel()
	}
}

func run[V any](ctx context.Context, fn Func[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("memo: computation panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Peek returns the memoized result for key without starting a computation.
// ok is false if no result is memoized.
func (g *Group[K, V]) Peek(key K) (v V, ok bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, found := g.calls[key]; found && c.completed {
		return c.val, true, c.err
	}
	return v, false, nil
}

// Len returns the number of memoized results.
func (g *Group[K, V]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.completed {
			n++
		}
	}
	return n
}

type chainKey struct{}

// chain links the keys being computed on behalf of a context, innermost
// first.
type chain struct {
	group  any
	key    any
	parent *chain
}

func withChain[K comparable, V any](ctx context.Context, g *Group[K, V], key K) context.Context {
	parent, _ := ctx.Value(chainKey{}).(*chain)
	return context.WithValue(ctx, chainKey{}, &chain{group: g, key: key, parent: parent})
}

func inChain[K comparable, V any](ctx context.Context, g *Group[K, V], key K) bool {
	for c, _ := ctx.Value(chainKey{}).(*chain); c != nil; c = c.parent {
		if c.group == any(g) && c.key == any(key) {
			return true
		}
	}
	return false
}
