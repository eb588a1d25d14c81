// Package shell provides the sh_* rule classes.
package shell

import (
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func shellAttributes(extra ...packages.Attribute) []packages.Attribute {
	return append([]packages.Attribute{
		{Name: "srcs", Type: attr.LabelList, Default: attr.LabelListValue{}},
		{Name: "deps", Type: attr.LabelList, Default: attr.LabelListValue{}},
		{Name: "data", Type: attr.LabelList, Default: attr.LabelListValue{}},
	}, extra...)
}

// Register registers the rule classes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(packages.MustNewRuleClass("sh_library", false, shellAttributes(),
		packages.WithDoc("A collection of shell scripts.")))

	r.Register(packages.MustNewRuleClass("sh_binary", false, shellAttributes(
		packages.Attribute{Name: "args", Type: attr.StringList, Default: attr.StringListValue{}},
	), packages.WithDoc("An executable shell script.")))

	r.Register(packages.MustNewRuleClass("sh_test", false, shellAttributes(
		packages.Attribute{Name: "args", Type: attr.StringList, Default: attr.StringListValue{}},
		packages.Attribute{Name: "size", Type: attr.String, Default: attr.StringValue("medium")},
		packages.Attribute{Name: "flaky", Type: attr.Bool, Default: attr.BoolValue(false)},
	), packages.WithDoc("A shell script test.")))
}
