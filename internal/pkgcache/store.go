package pkgcache

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/memo"
	"github.com/specialistvlad/buildgraph/internal/packages"
)

// Store is a memoizing Provider.
type Store struct {
	locator Locator
	loader  Loader
	flights memo.Group[label.PackageID, *loadResult]
	metrics *Metrics
}

// loadResult is what a construction leaves behind: the package and the
// diagnostics to replay to the triggering caller.
type loadResult struct {
	pkg    *packages.Package
	events *events.Stored
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMetrics instruments the store.
func WithMetrics(m *Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// NewStore returns an empty Store.
func NewStore(locator Locator, loader Loader, opts ...StoreOption) *Store {
	s := &Store{locator: locator, loader: loader}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

var _ Provider = (*Store)(nil)

// IsPackage implements Provider.
func (s *Store) IsPackage(_ context.Context, _ events.Handler, id label.PackageID) bool {
	return s.locator.IsPackage(id)
}

// GetPackage implements Provider. A package that was constructed with
// errors is returned normally; check Package.ContainsErrors.
func (s *Store) GetPackage(ctx context.Context, handler events.Handler, id label.PackageID) (*packages.Package, error) {
	logger := ctxlog.FromContext(ctx).With("package", id.String())

	if err := label.ValidatePackageName(id.Path()); err != nil {
		return nil, &packages.NoSuchPackageError{Package: id, Reason: "invalid package name", Err: err}
	}

	res, fresh, err := s.flights.Do(ctx, id, func(ctx context.Context) (*loadResult, error) {
		return s.load(ctx, id)
	})
	if fresh && res != nil {
		res.events.ReplayOn(handler)
	}
	if !fresh && err == nil {
		s.metrics.cacheHits.Inc()
	}
	if err != nil {
		var nsp *packages.NoSuchPackageError
		if !isCancellation(err) && !errors.As(err, &nsp) {
			err = &packages.NoSuchPackageError{Package: id, Reason: "error loading package", Err: err}
		}
		logger.Debug("Package request failed.", "error", err, "fresh", fresh)
		return nil, err
	}
	return res.pkg, nil
}

// load runs one construction. Diagnostics are buffered so that only the
// triggering caller sees them.
func (s *Store) load(ctx context.Context, id label.PackageID) (*loadResult, error) {
	logger := ctxlog.FromContext(ctx).With("package", id.String())
	started := time.Now()

	if !s.locator.IsPackage(id) {
		reason := "BUILD file not found"
		if id == label.ExternalPackage {
			reason = "WORKSPACE file not found"
		} else if s.locator.IsDeleted(id) {
			reason = "package has been deleted"
		}
		s.metrics.observeLoad(resultNoSuchPackage, started)
		logger.Debug("No such package.", "reason", reason)
		return nil, &packages.NoSuchPackageError{Package: id, Reason: reason}
	}
	buildFile, _ := s.locator.BuildFile(id)

	s.metrics.inFlight.Inc()
	defer s.metrics.inFlight.Dec()

	logger.Debug("Constructing package.", "build_file", buildFile)
	stored := &events.Stored{}
	pkg, err := s.loader.Load(ctx, stored, id, buildFile)
	res := &loadResult{pkg: pkg, events: stored}

	switch {
	case isCancellation(err):
		s.metrics.observeLoad(resultCancelled, started)
		return nil, err
	case err != nil:
		s.metrics.observeLoad(resultNoSuchPackage, started)
		return res, &packages.NoSuchPackageError{Package: id, Reason: "error loading package", Err: err}
	case pkg.ContainsErrors():
		s.metrics.observeLoad(resultContainsError, started)
	default:
		s.metrics.observeLoad(resultOK, started)
	}

	logger.Info("Package constructed.", "rules", pkg.Len(), "contains_errors", pkg.ContainsErrors(), "duration", time.Since(started))
	return res, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
