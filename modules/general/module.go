// Package general provides the language-independent rule classes.
package general

import (
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the rule classes with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(packages.MustNewRuleClass("filegroup", false, []packages.Attribute{
		{Name: "srcs", Type: attr.LabelList, Default: attr.LabelListValue{}, Doc: "Files that make up the group."},
		{Name: "data", Type: attr.LabelList, Default: attr.LabelListValue{}},
		{Name: "output_group", Type: attr.String},
	}, packages.WithDoc("Gives a convenient name to a collection of targets.")))

	r.Register(packages.MustNewRuleClass("genrule", false, []packages.Attribute{
		{Name: "srcs", Type: attr.LabelList, Default: attr.LabelListValue{}},
		{Name: "outs", Type: attr.StringList, Default: attr.StringListValue{}, Doc: "Files generated by this rule."},
		{Name: "cmd", Type: attr.String, Doc: "Command to run."},
		{Name: "tools", Type: attr.LabelList, Default: attr.LabelListValue{}},
		{Name: "message", Type: attr.String},
		{Name: "local", Type: attr.Bool, Default: attr.BoolValue(false)},
		{Name: "stamp", Type: attr.Int, Default: attr.IntValue(0)},
	}, packages.WithDoc("Generates one or more files using a user-defined command.")))

	r.Register(packages.MustNewRuleClass("alias", false, []packages.Attribute{
		{Name: "actual", Type: attr.Label, Mandatory: true, Doc: "The target this alias refers to."},
	}, packages.WithDoc("Creates another name a rule can be referred to by.")))

	r.Register(packages.MustNewRuleClass("test_suite", false, []packages.Attribute{
		{Name: "tests", Type: attr.LabelList, Default: attr.LabelListValue{}},
	}, packages.WithDoc("Defines a set of tests.")))
}
