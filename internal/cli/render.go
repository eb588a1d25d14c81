package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/packages"
	"gopkg.in/yaml.v3"
)

type packageView struct {
	Package        string     `json:"package" yaml:"package"`
	BuildFile      string     `json:"build_file" yaml:"build_file"`
	ContainsErrors bool       `json:"contains_errors" yaml:"contains_errors"`
	Rules          []ruleView `json:"rules" yaml:"rules"`
}

type ruleView struct {
	Label      string         `json:"label" yaml:"label"`
	Class      string         `json:"class" yaml:"class"`
	Location   string         `json:"location" yaml:"location"`
	Explicit   []string       `json:"explicit" yaml:"explicit"`
	Attributes map[string]any `json:"attributes" yaml:"attributes"`

	// text rendering only
	text []string
}

type ruleClassView struct {
	Name          string          `json:"name" yaml:"name"`
	WorkspaceOnly bool            `json:"workspace_only" yaml:"workspace_only"`
	Doc           string          `json:"doc,omitempty" yaml:"doc,omitempty"`
	Source        string          `json:"source" yaml:"source"`
	Attributes    []attributeView `json:"attributes" yaml:"attributes"`
}

type attributeView struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Mandatory bool   `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Default   any    `json:"default,omitempty" yaml:"default,omitempty"`
}

func newPackageView(pkg *packages.Package) packageView {
	view := packageView{
		Package:        pkg.ID().String(),
		BuildFile:      pkg.BuildFile(),
		ContainsErrors: pkg.ContainsErrors(),
		Rules:          []ruleView{},
	}
	for _, r := range pkg.Rules() {
		rv := ruleView{
			Label:      r.Label().String(),
			Class:      r.RuleClass().Name(),
			Location:   r.Location().String(),
			Explicit:   []string{},
			Attributes: map[string]any{},
		}
		for _, name := range r.AttrNames() {
			v, _ := r.Attr(name)
			rv.Attributes[name] = v.Native()
			if r.IsAttributeValueExplicitlySpecified(name) {
				rv.Explicit = append(rv.Explicit, name)
				if name != packages.AttrName {
					rv.text = append(rv.text, fmt.Sprintf("%s = %s", name, v))
				}
			}
		}
		view.Rules = append(view.Rules, rv)
	}
	return view
}

func newRuleClassView(rc *packages.RuleClass, source string) ruleClassView {
	view := ruleClassView{
		Name:          rc.Name(),
		WorkspaceOnly: rc.WorkspaceOnly(),
		Doc:           rc.Doc(),
		Source:        source,
		Attributes:    []attributeView{},
	}
	for _, a := range rc.Attributes() {
		av := attributeView{Name: a.Name, Type: a.Type.String(), Mandatory: a.Mandatory}
		if a.Default != nil {
			av.Default = a.Default.Native()
		}
		view.Attributes = append(view.Attributes, av)
	}
	return view
}

// render writes v in format. The text format is delegated to text.
func render(w io.Writer, format string, v any, text func() error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text()
	}
}

// writePackagesText prints rules in build file syntax, listing only the
// attributes that were set explicitly.
func writePackagesText(w io.Writer, views []packageView) error {
	var sb strings.Builder
	for _, pkg := range views {
		fmt.Fprintf(&sb, "# %s (%s)", pkg.Package, pkg.BuildFile)
		if pkg.ContainsErrors {
			sb.WriteString(" contains errors")
		}
		sb.WriteString("\n")
		for _, r := range pkg.Rules {
			fmt.Fprintf(&sb, "%s(\n", r.Class)
			fmt.Fprintf(&sb, "    name = %q,\n", r.Attributes[packages.AttrName])
			for _, line := range r.text {
				fmt.Fprintf(&sb, "    %s,\n", line)
			}
			fmt.Fprintf(&sb, ")  # %s\n", r.Location)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRuleClassesText(w io.Writer, views []ruleClassView) error {
	var sb strings.Builder
	for _, rc := range views {
		sb.WriteString(rc.Name)
		if rc.WorkspaceOnly {
			sb.WriteString(" (WORKSPACE only)")
		}
		if rc.Doc != "" {
			sb.WriteString(": " + rc.Doc)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
