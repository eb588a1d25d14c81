package pkgcache

import (
	"context"

	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/packages"
)

// Provider gives read access to packages.
type Provider interface {
	// GetPackage returns the package id, loading it if needed. It fails
	// with a *packages.NoSuchPackageError if the package does not exist and
	// with the context error if ctx ends first.
	GetPackage(ctx context.Context, handler events.Handler, id label.PackageID) (*packages.Package, error)
	// IsPackage reports whether id names an existing package. It never
	// loads the package.
	IsPackage(ctx context.Context, handler events.Handler, id label.PackageID) bool
}

// Locator finds the build file of a package.
type Locator interface {
	BuildFile(id label.PackageID) (string, bool)
	IsPackage(id label.PackageID) bool
	IsDeleted(id label.PackageID) bool
}

// Loader constructs a package from its build file. Diagnostics go to
// handler.
type Loader interface {
	Load(ctx context.Context, handler events.Handler, id label.PackageID, buildFile string) (*packages.Package, error)
}
