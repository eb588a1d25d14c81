package buildfile

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/label"
	"go.starlark.net/starlark"
)

// module is a .bzl file loaded during one evaluation.
type module struct {
	globals starlark.StringDict
	err     error
	done    bool
}

// load implements starlark.Thread.Load. Modules are executed once per
// evaluation; a module that loads itself, directly or not, is an error.
func (ev *evaluation) load(thread *starlark.Thread, spec string) (starlark.StringDict, error) {
	lbl, err := resolveLoad(threadPackage(thread), spec)
	if err != nil {
		return nil, err
	}
	rel := path.Join(lbl.Package.Path(), lbl.Name)

	if m, ok := ev.modules[rel]; ok {
		if !m.done {
			return nil, fmt.Errorf("cycle in load graph involving %s", lbl)
		}
		return m.globals, m.err
	}

	m := &module{}
	ev.modules[rel] = m
	defer func() { m.done = true }()

	ev.logger.Debug("Loading module.", "module", lbl.String())
	src, err := os.ReadFile(ev.path(rel))
	if err != nil {
		m.err = fmt.Errorf("cannot read %s: %w", lbl, err)
		return nil, m.err
	}

	child := ev.newThread("load "+rel, lbl.Package)
	child.SetLocal(loadingKey, rel)
	m.globals, m.err = starlark.ExecFile(child, rel, src, ev.bzlPredeclared())
	return m.globals, m.err
}

// resolveLoad turns the argument of load() into the label of a .bzl file.
// Relative labels refer to the package of the loading file; from the
// workspace file they refer to the root package.
func resolveLoad(from label.PackageID, spec string) (label.Label, error) {
	if from == label.ExternalPackage {
		from = ""
	}
	lbl, err := label.ParseRelative(from, spec)
	if err != nil {
		return label.Label{}, err
	}
	if !strings.HasSuffix(lbl.Name, ".bzl") {
		return label.Label{}, fmt.Errorf("load: %s is not a .bzl file", lbl)
	}
	return lbl, nil
}
