package pkgcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPackage_SingleFlight(t *testing.T) {
	ctx, _ := testutil.Context(t)
	loader := &fakeLoader{gate: make(chan struct{}), started: make(chan struct{})}
	started := loader.started
	store := NewStore(locatorFor("pkg"), loader)

	const n = 20
	pkgs := make([]*packages.Package, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pkgs[i], errs[i] = store.GetPackage(ctx, events.Discard, "pkg")
		}()
	}

	<-started
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, pkgs[0], pkgs[i])
	}

	again, err := store.GetPackage(ctx, events.Discard, "pkg")
	require.NoError(t, err)
	assert.Same(t, pkgs[0], again)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestGetPackage_NoSuchPackage(t *testing.T) {
	locator := locatorFor("pkg", "gone")
	locator.deleted["gone"] = true

	testCases := []struct {
		name       string
		id         label.PackageID
		wantReason string
	}{
		{name: "no build file", id: "missing", wantReason: "BUILD file not found"},
		{name: "deleted package", id: "gone", wantReason: "package has been deleted"},
		{name: "invalid name", id: "a//b", wantReason: "invalid package name"},
		{name: "no workspace file", id: label.ExternalPackage, wantReason: "WORKSPACE file not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			loader := &fakeLoader{}
			store := NewStore(locator, loader)

			assert.False(t, store.IsPackage(ctx, events.Discard, tc.id))
			pkg, err := store.GetPackage(ctx, events.Discard, tc.id)
			assert.Nil(t, pkg)

			var nsp *packages.NoSuchPackageError
			require.ErrorAs(t, err, &nsp)
			assert.Equal(t, tc.id, nsp.Package)
			assert.Equal(t, tc.wantReason, nsp.Reason)
			assert.Zero(t, loader.calls.Load())
		})
	}
}

func TestGetPackage_LoaderFailure(t *testing.T) {
	ctx, _ := testutil.Context(t)
	cause := errors.New("reading build file pkg/BUILD: permission denied")
	loader := &fakeLoader{err: cause}
	store := NewStore(locatorFor("pkg"), loader)

	_, err := store.GetPackage(ctx, events.Discard, "pkg")
	var nsp *packages.NoSuchPackageError
	require.ErrorAs(t, err, &nsp)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no such package '//pkg': error loading package: reading build file pkg/BUILD: permission denied", err.Error())

	// Failures are memoized.
	_, err = store.GetPackage(ctx, events.Discard, "pkg")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestGetPackage_LoaderPanic(t *testing.T) {
	ctx, _ := testutil.Context(t)
	store := NewStore(locatorFor("pkg"), &fakeLoader{panicWith: "evaluator bug"})

	_, err := store.GetPackage(ctx, events.Discard, "pkg")
	var nsp *packages.NoSuchPackageError
	require.ErrorAs(t, err, &nsp)
	assert.Equal(t, label.PackageID("pkg"), nsp.Package)
	assert.ErrorContains(t, err, "evaluator bug")
	assert.False(t, errors.Is(err, context.Canceled))
}

func TestGetPackage_DiagnosticsGoToTriggeringCaller(t *testing.T) {
	ctx, _ := testutil.Context(t)
	store := NewStore(locatorFor("pkg"), &fakeLoader{})

	first := &events.Stored{}
	_, err := store.GetPackage(ctx, first, "pkg")
	require.NoError(t, err)
	require.Len(t, first.Events(), 1)
	assert.Equal(t, "loaded //pkg", first.Events()[0].Message)

	second := &events.Stored{}
	_, err = store.GetPackage(ctx, second, "pkg")
	require.NoError(t, err)
	assert.Empty(t, second.Events())
}

func TestGetPackage_ContainsErrorsIsReturned(t *testing.T) {
	ctx, _ := testutil.Context(t)
	store := NewStore(locatorFor("pkg"), &fakeLoader{containErrors: true})

	pkg, err := store.GetPackage(ctx, events.Discard, "pkg")
	require.NoError(t, err)
	assert.True(t, pkg.ContainsErrors())
}

func TestGetPackage_Cancellation(t *testing.T) {
	t.Run("cancelled caller", func(t *testing.T) {
		ctx, _ := testutil.Context(t)
		ctx, cancel := context.WithCancel(ctx)
		loader := &fakeLoader{gate: make(chan struct{}), started: make(chan struct{})}
		started := loader.started
		store := NewStore(locatorFor("pkg"), loader)

		go func() {
			<-started
			cancel()
		}()
		_, err := store.GetPackage(ctx, events.Discard, "pkg")
		assert.ErrorIs(t, err, context.Canceled)

		var nsp *packages.NoSuchPackageError
		assert.False(t, errors.As(err, &nsp))
	})

	t.Run("cancelled load is not cached", func(t *testing.T) {
		ctx, _ := testutil.Context(t)
		loader := &fakeLoader{gate: make(chan struct{})}
		store := NewStore(locatorFor("pkg"), loader)

		short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := store.GetPackage(short, events.Discard, "pkg")
		require.ErrorIs(t, err, context.DeadlineExceeded)

		close(loader.gate)
		require.Eventually(t, func() bool {
			pkg, err := store.GetPackage(ctx, events.Discard, "pkg")
			return err == nil && pkg != nil
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(2), loader.calls.Load())
	})
}

func TestStore_Metrics(t *testing.T) {
	ctx, _ := testutil.Context(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	store := NewStore(locatorFor("ok", "bad"), &fakeLoader{}, WithMetrics(m))

	_, err := store.GetPackage(ctx, events.Discard, "ok")
	require.NoError(t, err)
	_, err = store.GetPackage(ctx, events.Discard, "ok")
	require.NoError(t, err)
	_, err = store.GetPackage(ctx, events.Discard, "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.loads.WithLabelValues(resultOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.loads.WithLabelValues(resultNoSuchPackage)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.cacheHits))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.inFlight))

	count, err := promtest.GatherAndCount(reg, "buildgraph_package_load_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadAll(t *testing.T) {
	ctx, _ := testutil.Context(t)
	loader := &fakeLoader{}
	store := NewStore(locatorFor("a", "b", "c"), loader)

	ids := []label.PackageID{"c", "missing", "a", "b", "a"}
	results, err := LoadAll(ctx, store, &events.Stored{}, ids, 2)
	require.NoError(t, err)
	require.Len(t, results, len(ids))

	for i, res := range results {
		assert.Equal(t, ids[i], res.ID)
	}
	assert.Equal(t, label.PackageID("c"), results[0].Package.ID())
	assert.Nil(t, results[1].Package)
	var nsp *packages.NoSuchPackageError
	assert.ErrorAs(t, results[1].Err, &nsp)
	assert.Same(t, results[2].Package, results[4].Package)
	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestLoadAll_Cancelled(t *testing.T) {
	ctx, _ := testutil.Context(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	store := NewStore(locatorFor("a"), &fakeLoader{})
	_, err := LoadAll(ctx, store, events.Discard, []label.PackageID{"a"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
