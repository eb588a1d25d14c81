package pkgcache

import (
	"context"

	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of loading one package.
type Result struct {
	ID      label.PackageID
	Package *packages.Package
	Err     error
}

// LoadAll requests every package in ids from p using at most workers
// concurrent requests. Results are in the order of ids. Per-package errors
// are reported in the results; only cancellation of ctx is returned as an
// error. handler must be safe for concurrent use.
func LoadAll(ctx context.Context, p Provider, handler events.Handler, ids []label.PackageID, workers int) ([]Result, error) {
	results := make([]Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, id := range ids {
		g.Go(func() error {
			pkg, err := p.GetPackage(gctx, handler, id)
			results[i] = Result{ID: id, Package: pkg, Err: err}
			if isCancellation(err) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
