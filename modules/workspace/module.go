// Package workspace provides the rule classes that may only be declared in
// the WORKSPACE file.
package workspace

import (
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the rule classes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(packages.MustNewRuleClass("workspace", true, nil,
		packages.WithDoc("Names the workspace.")))

	r.Register(packages.MustNewRuleClass("bind", true, []packages.Attribute{
		{Name: "actual", Type: attr.Label},
	}, packages.WithDoc("Gives a target an alias in the //external package.")))

	r.Register(packages.MustNewRuleClass("local_repository", true, []packages.Attribute{
		{Name: "path", Type: attr.String, Mandatory: true, Doc: "Path to the repository's directory."},
	}, packages.WithDoc("Allows targets from a local directory to be bound.")))

	r.Register(packages.MustNewRuleClass("new_local_repository", true, []packages.Attribute{
		{Name: "path", Type: attr.String, Mandatory: true},
		{Name: "build_file", Type: attr.String},
		{Name: "build_file_content", Type: attr.String},
	}, packages.WithDoc("Turns a local directory without build files into a repository.")))

	r.Register(packages.MustNewRuleClass("http_archive", true, []packages.Attribute{
		{Name: "urls", Type: attr.StringList, Default: attr.StringListValue{}},
		{Name: "url", Type: attr.String},
		{Name: "sha256", Type: attr.String},
		{Name: "strip_prefix", Type: attr.String},
		{Name: "build_file", Type: attr.Label},
	}, packages.WithDoc("Downloads a compressed archive and makes it available as a repository.")))
}
