// Package discovery maps package identifiers onto build files inside a
// workspace directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/label"
)

// Default file names, in lookup order.
var (
	DefaultBuildFileNames     = []string{"BUILD.bazel", "BUILD"}
	DefaultWorkspaceFileNames = []string{"WORKSPACE.bazel", "WORKSPACE"}
)

// Locator finds build files below a workspace root.
type Locator struct {
	root               string
	buildFileNames     []string
	workspaceFileNames []string
	deleted            []string
}

// Option configures a Locator.
type Option func(*Locator)

// WithBuildFileNames overrides the build file names tried for every
// package, in order.
func WithBuildFileNames(names ...string) Option {
	return func(l *Locator) {
		if len(names) > 0 {
			l.buildFileNames = slices.Clone(names)
		}
	}
}

// WithDeletedPackages hides packages from lookup. Each entry is a package
// path or a doublestar pattern such as "third_party/**".
func WithDeletedPackages(patterns ...string) Option {
	return func(l *Locator) {
		for _, p := range patterns {
			if p = strings.Trim(strings.TrimPrefix(p, "//"), "/"); p != "" {
				l.deleted = append(l.deleted, p)
			}
		}
	}
}

// New returns a Locator for the workspace at root.
func New(root string, opts ...Option) (*Locator, error) {
	l := &Locator{
		root:               root,
		buildFileNames:     DefaultBuildFileNames,
		workspaceFileNames: DefaultWorkspaceFileNames,
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, p := range l.deleted {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid deleted package pattern %q", p)
		}
	}
	for _, name := range l.buildFileNames {
		if name == "" || strings.ContainsAny(name, `/\{},*?[]`) {
			return nil, fmt.Errorf("invalid build file name %q", name)
		}
	}
	return l, nil
}

// Root returns the workspace root directory.
func (l *Locator) Root() string { return l.root }

// BuildFile returns the slash-separated path, relative to the root, of the
// file that defines id. The external package is defined by the workspace
// file.
func (l *Locator) BuildFile(id label.PackageID) (string, bool) {
	if id == label.ExternalPackage {
		return l.firstExisting("", l.workspaceFileNames)
	}
	return l.firstExisting(id.Path(), l.buildFileNames)
}

func (l *Locator) firstExisting(dir string, names []string) (string, bool) {
	for _, name := range names {
		rel := path.Join(dir, name)
		info, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(rel)))
		if err == nil && !info.IsDir() {
			return rel, true
		}
	}
	return "", false
}

// IsDeleted reports whether id matches one of the deleted package patterns.
func (l *Locator) IsDeleted(id label.PackageID) bool {
	for _, p := range l.deleted {
		if ok, err := doublestar.Match(p, id.Path()); err == nil && ok {
			return true
		}
	}
	return false
}

// IsPackage reports whether id names an existing package: the name is
// legal, a build file exists and the package is not deleted.
func (l *Locator) IsPackage(id label.PackageID) bool {
	if err := label.ValidatePackageName(id.Path()); err != nil {
		return false
	}
	if id != label.ExternalPackage && l.IsDeleted(id) {
		return false
	}
	_, ok := l.BuildFile(id)
	return ok
}

// ListPackages returns every package below the root, sorted. Directories
// whose names are not legal package names, deleted packages and a top-level
// external/ directory are skipped; the external package always denotes the
// workspace file.
func (l *Locator) ListPackages(ctx context.Context) ([]label.PackageID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	pattern := "**/{" + strings.Join(l.buildFileNames, ",") + "}"

	seen := make(map[label.PackageID]struct{})
	err := doublestar.GlobWalk(os.DirFS(l.root), pattern, func(match string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		dir := path.Dir(match)
		if dir == "." {
			dir = ""
		}
		id := label.PackageID(dir)
		if err := label.ValidatePackageName(dir); err != nil {
			logger.Debug("Skipping directory with illegal package name.", "dir", dir, "error", err)
			return nil
		}
		if id == label.ExternalPackage {
			logger.Debug("Skipping directory shadowed by the workspace package.", "dir", dir)
			return nil
		}
		if l.IsDeleted(id) {
			logger.Debug("Skipping deleted package.", "package", id.String())
			return nil
		}
		seen[id] = struct{}{}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("listing packages under %s: %w", l.root, err)
	}

	ids := make([]label.PackageID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	logger.Debug("Packages discovered.", "root", l.root, "count", len(ids))
	return ids, nil
}
