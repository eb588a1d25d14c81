// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/location"
)

// Provenance records the macro that generated a rule.
type Provenance struct {
	Generated         bool
	GeneratorName     string
	GeneratorFunction string
	GeneratorLocation string
}

// Rule is a validated, immutable instance of a rule class.
type Rule struct {
	label      label.Label
	ruleClass  *RuleClass
	location   location.Location
	attrs      attr.Map
	explicit   map[string]bool
	provenance Provenance
}

func (r *Rule) Label() label.Label          { return r.label }
func (r *Rule) Name() string                { return r.label.Name }
func (r *Rule) Package() label.PackageID    { return r.label.Package }
func (r *Rule) RuleClass() *RuleClass       { return r.ruleClass }
func (r *Rule) Location() location.Location { return r.location }
func (r *Rule) Provenance() Provenance      { return r.provenance }

func (r *Rule) String() string {
	return fmt.Sprintf("%s rule %s", r.ruleClass.Name(), r.label)
}

// Attr returns the value of the named attribute. Attributes without a value
// and without a default are absent.
func (r *Rule) Attr(name string) (attr.Value, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// AttrNames returns the names of all attributes that have a value, sorted.
func (r *Rule) AttrNames() []string {
	return r.attrs.Keys()
}

// IsAttributeValueExplicitlySpecified reports whether the attribute was set
// by the caller rather than filled in from its default.
func (r *Rule) IsAttributeValueExplicitlySpecified(name string) bool {
	return r.explicit[name]
}

// StringAttr returns a string attribute or "" if unset.
func (r *Rule) StringAttr(name string) string {
	if v, ok := r.attrs[name].(attr.StringValue); ok {
		return string(v)
	}
	return ""
}

// BoolAttr returns a bool attribute or false if unset.
func (r *Rule) BoolAttr(name string) bool {
	if v, ok := r.attrs[name].(attr.BoolValue); ok {
		return bool(v)
	}
	return false
}

// StringListAttr returns a copy of a list(string) attribute.
func (r *Rule) StringListAttr(name string) []string {
	if v, ok := r.attrs[name].(attr.StringListValue); ok {
		return slices.Clone([]string(v))
	}
	return nil
}

// LabelListAttr returns a copy of a list(label) attribute.
func (r *Rule) LabelListAttr(name string) []label.Label {
	if v, ok := r.attrs[name].(attr.LabelListValue); ok {
		return slices.Clone([]label.Label(v))
	}
	return nil
}
