package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	val   *int
	fresh bool
	err   error
}

func TestDo_SingleFlight(t *testing.T) {
	var g Group[string, *int]
	var calls atomic.Int32
	release := make(chan struct{})

	const n = 50
	results := make(chan result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, fresh, err := g.Do(context.Background(), "pkg", func(ctx context.Context) (*int, error) {
				calls.Add(1)
				<-release
				x := 42
				return &x, nil
			})
			results <- result{v, fresh, err}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	var first *int
	freshCount := 0
	for r := range results {
		require.NoError(t, r.err)
		if first == nil {
			first = r.val
		}
		assert.Same(t, first, r.val)
		if r.fresh {
			freshCount++
		}
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, freshCount)
	assert.Equal(t, 1, g.Len())

	v, fresh, err := g.Do(context.Background(), "pkg", func(context.Context) (*int, error) {
		return nil, errors.New("memoized value must not be recomputed")
	})
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Same(t, first, v)
}

func TestDo_ErrorsAreMemoized(t *testing.T) {
	var g Group[string, int]
	boom := errors.New("boom")
	var calls int

	for i := 0; i < 3; i++ {
		_, fresh, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
			calls++
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, i == 0, fresh)
	}
	assert.Equal(t, 1, calls)

	_, ok, err := g.Peek("k")
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestDo_CancellationErrorsAreNotMemoized(t *testing.T) {
	var g Group[string, int]
	var calls int
	fn := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, context.DeadlineExceeded
		}
		return 7, nil
	}

	_, _, err := g.Do(context.Background(), "k", fn)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, ok, _ := g.Peek("k")
	assert.False(t, ok)

	v, fresh, err := g.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestDo_WaiterCancellation(t *testing.T) {
	var g Group[string, string]
	started := make(chan struct{})
	release := make(chan struct{})
	var computationCancelled atomic.Bool

	fn := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
			return "done", nil
		case <-ctx.Done():
			computationCancelled.Store(true)
			return "", ctx.Err()
		}
	}

	triggerCtx, cancelTrigger := context.WithCancel(context.Background())
	triggerDone := make(chan error, 1)
	go func() {
		_, _, err := g.Do(triggerCtx, "k", fn)
		triggerDone <- err
	}()
	<-started

	waiterDone := make(chan result, 1)
	go func() {
		_, fresh, err := g.Do(context.Background(), "k", fn)
		waiterDone <- result{fresh: fresh, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelTrigger()
	select {
	case err := <-triggerDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return promptly")
	}

	close(release)
	r := <-waiterDone
	require.NoError(t, r.err)
	assert.False(t, r.fresh)
	assert.False(t, computationCancelled.Load(), "computation must survive while someone waits")

	v, ok, err := g.Peek("k")
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestDo_LastWaiterLeavingCancelsComputation(t *testing.T) {
	var g Group[string, int]
	var running, maxRunning, calls atomic.Int32
	firstCancelled := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		n := calls.Add(1)
		cur := running.Add(1)
		defer running.Add(-1)
		for {
			m := maxRunning.Load()
			if cur <= m || maxRunning.CompareAndSwap(m, cur) {
				break
			}
		}

		if n == 1 {
			<-ctx.Done()
			time.Sleep(30 * time.Millisecond)
			close(firstCancelled)
			return 0, ctx.Err()
		}
		return 2, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := g.Do(ctx, "k", fn)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	v, fresh, err := g.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 2, v)

	select {
	case <-firstCancelled:
	default:
		t.Fatal("second computation started before the abandoned one drained")
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestDo_AbandonedResultIsNotPublished(t *testing.T) {
	var g Group[string, int]
	proceed := make(chan struct{})
	finished := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-proceed
		cancel()
	}()
	_, _, err := g.Do(ctx, "k", func(cctx context.Context) (int, error) {
		close(proceed)
		<-cctx.Done()
		defer close(finished)
		return 99, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	<-finished

	assert.Eventually(t, func() bool {
		_, ok, _ := g.Peek("k")
		return !ok && g.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDo_RecursiveCall(t *testing.T) {
	var g Group[string, int]

	t.Run("direct", func(t *testing.T) {
		_, _, err := g.Do(context.Background(), "a", func(ctx context.Context) (int, error) {
			_, _, err := g.Do(ctx, "a", func(context.Context) (int, error) { return 1, nil })
			return 0, err
		})
		assert.ErrorIs(t, err, ErrRecursiveCall)
	})

	t.Run("through another key", func(t *testing.T) {
		var fnX, fnY Func[int]
		fnX = func(ctx context.Context) (int, error) {
			v, _, err := g.Do(ctx, "y", fnY)
			return v + 1, err
		}
		fnY = func(ctx context.Context) (int, error) {
			v, _, err := g.Do(ctx, "x", fnX)
			return v + 1, err
		}
		_, _, err := g.Do(context.Background(), "x", fnX)
		assert.ErrorIs(t, err, ErrRecursiveCall)
	})

	t.Run("nested distinct keys", func(t *testing.T) {
		v, _, err := g.Do(context.Background(), "outer", func(ctx context.Context) (int, error) {
			inner, _, err := g.Do(ctx, "inner", func(context.Context) (int, error) { return 20, nil })
			return inner + 1, err
		})
		require.NoError(t, err)
		assert.Equal(t, 21, v)
	})
}

func TestDo_Panic(t *testing.T) {
	var g Group[string, int]
	_, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) {
		panic("kaboom")
	})
	assert.ErrorContains(t, err, "memo: computation panicked: kaboom")
}

func TestDo_ContextValuesReachComputation(t *testing.T) {
	type ctxKey struct{}
	var g Group[string, string]
	ctx := context.WithValue(context.Background(), ctxKey{}, "logger")

	v, _, err := g.Do(ctx, "k", func(cctx context.Context) (string, error) {
		return cctx.Value(ctxKey{}).(string), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "logger", v)
}
