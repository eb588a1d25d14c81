// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/location"
)

// Attributes every rule class declares implicitly.
const (
	AttrName              = "name"
	AttrGeneratorName     = "generator_name"
	AttrGeneratorFunction = "generator_function"
	AttrGeneratorLocation = "generator_location"
	AttrTags              = "tags"
	AttrVisibility        = "visibility"
	AttrDeprecation       = "deprecation"
	AttrTestonly          = "testonly"
)

// Attribute declares one attribute of a rule class.
type Attribute struct {
	Name string
	Type attr.Type
	// Default is used when the attribute is not set. A nil Default leaves
	// the attribute absent from the rule.
	Default   attr.Value
	Mandatory bool
	Doc       string
}

func commonAttributes() []Attribute {
	return []Attribute{
		{Name: AttrName, Type: attr.String, Mandatory: true},
		{Name: AttrGeneratorName, Type: attr.String},
		{Name: AttrGeneratorFunction, Type: attr.String},
		{Name: AttrGeneratorLocation, Type: attr.String},
		{Name: AttrTags, Type: attr.StringList, Default: attr.StringListValue{}},
		{Name: AttrVisibility, Type: attr.LabelList},
		{Name: AttrDeprecation, Type: attr.String},
		{Name: AttrTestonly, Type: attr.Bool, Default: attr.BoolValue(false)},
	}
}

// RuleClass is the immutable schema of a kind of rule.
type RuleClass struct {
	name          string
	workspaceOnly bool
	doc           string
	attributes    map[string]Attribute
	order         []string
}

// RuleClassOption configures a RuleClass during construction.
type RuleClassOption func(*RuleClass)

// WithDoc sets the documentation string of a rule class.
func WithDoc(doc string) RuleClassOption {
	return func(rc *RuleClass) { rc.doc = doc }
}

// NewRuleClass builds a rule class from its own attributes. The common
// attributes are added automatically and may not be redeclared.
func NewRuleClass(name string, workspaceOnly bool, attrs []Attribute, opts ...RuleClassOption) (*RuleClass, error) {
	if name == "" {
		return nil, errors.New("rule class name must not be empty")
	}

	rc := &RuleClass{
		name:          name,
		workspaceOnly: workspaceOnly,
		attributes:    make(map[string]Attribute, len(attrs)+8),
	}
	for _, opt := range opts {
		opt(rc)
	}

	for _, a := range commonAttributes() {
		rc.attributes[a.Name] = a
		rc.order = append(rc.order, a.Name)
	}

	var errs []error
	for _, a := range attrs {
		if err := validateAttribute(a); err != nil {
			errs = append(errs, fmt.Errorf("rule class '%s': %w", name, err))
			continue
		}
		if _, exists := rc.attributes[a.Name]; exists {
			errs = append(errs, fmt.Errorf("rule class '%s': attribute '%s' is already declared", name, a.Name))
			continue
		}
		rc.attributes[a.Name] = a
		rc.order = append(rc.order, a.Name)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.Sort(rc.order)
	return rc, nil
}

// MustNewRuleClass is like NewRuleClass but panics on error. It is meant for
// statically declared classes.
func MustNewRuleClass(name string, workspaceOnly bool, attrs []Attribute, opts ...RuleClassOption) *RuleClass {
	rc, err := NewRuleClass(name, workspaceOnly, attrs, opts...)
	if err != nil {
		panic(err)
	}
	return rc
}

func validateAttribute(a Attribute) error {
	if a.Name == "" {
		return errors.New("attribute name must not be empty")
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("attribute '%s' has an invalid type", a.Name)
	}
	if a.Default != nil {
		if a.Mandatory {
			return fmt.Errorf("mandatory attribute '%s' cannot have a default value", a.Name)
		}
		if a.Default.Type() != a.Type {
			return fmt.Errorf("attribute '%s' of type '%s' has a default of type '%s'", a.Name, a.Type, a.Default.Type())
		}
	}
	return nil
}

// Name returns the name of the rule class, e.g. "genrule".
func (rc *RuleClass) Name() string { return rc.name }

// WorkspaceOnly reports whether rules of this class may only be declared in
// the workspace file.
func (rc *RuleClass) WorkspaceOnly() bool { return rc.workspaceOnly }

// Doc returns the documentation string.
func (rc *RuleClass) Doc() string { return rc.doc }

func (rc *RuleClass) String() string { return rc.name }

// Attribute returns the declaration of the named attribute.
func (rc *RuleClass) Attribute(name string) (Attribute, bool) {
	a, ok := rc.attributes[name]
	return a, ok
}

// Attributes returns all declared attributes sorted by name.
func (rc *RuleClass) Attributes() []Attribute {
	out := make([]Attribute, 0, len(rc.order))
	for _, name := range rc.order {
		out = append(out, rc.attributes[name])
	}
	return out
}

// createRuleWithLabel checks attrs against the schema and materializes a
// rule. Attributes are visited in sorted order so the reported error does
// not depend on map iteration.
func (rc *RuleClass) createRuleWithLabel(lbl label.Label, attrs attr.Map, loc location.Location) (*Rule, error) {
	values := make(attr.Map, len(rc.attributes))
	explicit := make(map[string]bool, len(attrs))
	parse := func(raw string) (label.Label, error) {
		return label.ParseRelative(lbl.Package, raw)
	}

	for _, name := range attrs.Keys() {
		decl, ok := rc.attributes[name]
		if !ok {
			return nil, rc.attributeError(KindUnknownAttribute, lbl, loc, name,
				fmt.Errorf("no such attribute '%s' in '%s' rule", name, rc.name))
		}
		v, err := attr.Convert(name, attrs[name], decl.Type, parse)
		if err != nil {
			return nil, rc.attributeError(KindAttributeType, lbl, loc, name, err)
		}
		values[name] = v
		explicit[name] = true
	}

	for _, name := range rc.order {
		if explicit[name] {
			continue
		}
		decl := rc.attributes[name]
		if decl.Mandatory {
			return nil, rc.attributeError(KindMissingAttribute, lbl, loc, name,
				fmt.Errorf("missing value for mandatory attribute '%s' in '%s' rule", name, rc.name))
		}
		if decl.Default != nil {
			values[name] = decl.Default
		}
	}

	r := &Rule{
		label:     lbl,
		ruleClass: rc,
		location:  loc,
		attrs:     values,
		explicit:  explicit,
	}
	r.provenance = Provenance{
		GeneratorName:     r.StringAttr(AttrGeneratorName),
		GeneratorFunction: r.StringAttr(AttrGeneratorFunction),
		GeneratorLocation: r.StringAttr(AttrGeneratorLocation),
	}
	r.provenance.Generated = r.provenance.GeneratorFunction != ""
	return r, nil
}

func (rc *RuleClass) attributeError(kind ErrorKind, lbl label.Label, loc location.Location, name string, err error) error {
	return &RuleConstructionError{
		Kind:      kind,
		RuleClass: rc.name,
		Label:     &lbl,
		Name:      lbl.Name,
		Attribute: name,
		Location:  loc,
		Err:       err,
	}
}
