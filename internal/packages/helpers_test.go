package packages

import (
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/location"
)

type classSet map[string]*RuleClass

func (c classSet) RuleClasses() map[string]*RuleClass { return c }

func testClasses() classSet {
	return classSet{
		"genrule": MustNewRuleClass("genrule", false, []Attribute{
			{Name: "srcs", Type: attr.LabelList, Default: attr.LabelListValue{}},
			{Name: "outs", Type: attr.StringList, Default: attr.StringListValue{}},
			{Name: "cmd", Type: attr.String},
			{Name: "stamp", Type: attr.Int, Default: attr.IntValue(0)},
		}),
		"alias": MustNewRuleClass("alias", false, []Attribute{
			{Name: "actual", Type: attr.Label, Mandatory: true},
		}),
		"local_repository": MustNewRuleClass("local_repository", true, []Attribute{
			{Name: "path", Type: attr.String, Mandatory: true},
		}),
	}
}

func buildLoc(line int) location.Location {
	return location.New("pkg/BUILD", line, 1)
}

func workspaceLoc(line int) location.Location {
	return location.New("WORKSPACE", line, 1)
}

func named(name string, kv ...any) attr.Map {
	m := attr.Map{AttrName: attr.StringValue(name)}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1].(attr.Value)
	}
	return m
}
