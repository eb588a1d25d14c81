package pkgcache

import (
	"context"

	"github.com/specialistvlad/buildgraph/internal/buildfile"
	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/packages"
)

// BuildFileLoader constructs packages by evaluating their build files.
type BuildFileLoader struct {
	evaluator *buildfile.Evaluator
	resolver  label.Resolver
}

// NewBuildFileLoader returns a Loader backed by ev. A nil resolver selects
// label.DefaultResolver.
func NewBuildFileLoader(ev *buildfile.Evaluator, resolver label.Resolver) *BuildFileLoader {
	return &BuildFileLoader{evaluator: ev, resolver: resolver}
}

// Load implements Loader.
func (l *BuildFileLoader) Load(ctx context.Context, handler events.Handler, id label.PackageID, buildFile string) (*packages.Package, error) {
	pb := packages.NewPackageBuilder(id, buildFile, l.resolver)
	if err := l.evaluator.Evaluate(ctx, pb, handler); err != nil {
		return nil, err
	}
	return pb.Build()
}
