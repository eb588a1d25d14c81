// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"maps"
	"slices"

	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/location"
)

// RuleClassProvider supplies the rule classes known to a RuleFactory.
type RuleClassProvider interface {
	RuleClasses() map[string]*RuleClass
}

// RuleFactory turns raw rule invocations into rules. It holds an immutable
// copy of the rule classes and can be shared by concurrent loads.
type RuleFactory struct {
	ruleClasses map[string]*RuleClass
}

// NewRuleFactory snapshots the classes of provider.
func NewRuleFactory(provider RuleClassProvider) *RuleFactory {
	classes := maps.Clone(provider.RuleClasses())
	if classes == nil {
		classes = map[string]*RuleClass{}
	}
	return &RuleFactory{ruleClasses: classes}
}

// RuleClassNames returns the sorted names of all known rule classes.
func (f *RuleFactory) RuleClassNames() []string {
	return slices.Sorted(maps.Keys(f.ruleClasses))
}

// RuleClass returns the named rule class.
func (f *RuleFactory) RuleClass(name string) (*RuleClass, bool) {
	rc, ok := f.ruleClasses[name]
	return rc, ok
}

// CreateRuleFromInvocation looks up the class named by inv and creates the
// rule. The builder is not modified.
func (f *RuleFactory) CreateRuleFromInvocation(pb *PackageBuilder, inv RawRuleInvocation) (*Rule, error) {
	rc, ok := f.ruleClasses[inv.RuleClass]
	if !ok {
		return nil, &RuleConstructionError{
			Kind:      KindUnknownRuleClass,
			RuleClass: inv.RuleClass,
			Location:  inv.Location,
		}
	}
	return CreateRule(pb, rc, inv.Attributes, inv.Location, inv.CallStack)
}

// CreateAndAddRule creates the rule for inv and adds it to pb.
func (f *RuleFactory) CreateAndAddRule(pb *PackageBuilder, inv RawRuleInvocation) (*Rule, error) {
	r, err := f.CreateRuleFromInvocation(pb, inv)
	if err != nil {
		return nil, err
	}
	if err := pb.AddRule(r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRule validates one rule invocation and returns the resulting rule.
// It never mutates pb or attrs; adding the rule is up to the caller.
//
// stack is the interpreter call stack, outermost frame first. When the rule
// was reached through a macro (more than two frames) and the caller did not
// set them, the generator_* attributes are filled in from the outermost
// frame.
func CreateRule(pb *PackageBuilder, rc *RuleClass, attrs attr.Map, loc location.Location, stack []MacroFrame) (*Rule, error) {
	raw, ok := attrs[AttrName]
	if !ok || raw == nil {
		return nil, &RuleConstructionError{Kind: KindMissingName, RuleClass: rc.Name(), Location: loc}
	}
	name, ok := raw.(attr.StringValue)
	if !ok {
		return nil, &RuleConstructionError{Kind: KindNameNotString, RuleClass: rc.Name(), Location: loc}
	}

	lbl, err := pb.CreateLabel(string(name))
	if err != nil {
		return nil, &RuleConstructionError{
			Kind:      KindIllegalName,
			RuleClass: rc.Name(),
			Name:      string(name),
			Location:  loc,
			Err:       err,
		}
	}

	inWorkspace := IsWorkspaceFile(loc.File)
	switch {
	case rc.WorkspaceOnly() && !inWorkspace:
		return nil, &RuleConstructionError{Kind: KindWorkspaceOnly, RuleClass: rc.Name(), Label: &lbl, Name: lbl.Name, Location: loc}
	case !rc.WorkspaceOnly() && inWorkspace:
		return nil, &RuleConstructionError{Kind: KindForbiddenInWorkspace, RuleClass: rc.Name(), Label: &lbl, Name: lbl.Name, Location: loc}
	}

	attrs = addGeneratorAttributes(attrs, stack)
	return rc.createRuleWithLabel(lbl, attrs, loc)
}

// addGeneratorAttributes returns attrs extended with the generator_*
// attributes, or attrs itself when there is nothing to add. A direct call
// from a build file has at most two frames. If generator_location is already
// present the original map is returned untouched.
func addGeneratorAttributes(attrs attr.Map, stack []MacroFrame) attr.Map {
	if len(stack) <= 2 || attrs.Has(AttrGeneratorName) || attrs.Has(AttrGeneratorFunction) {
		return attrs
	}
	if attrs.Has(AttrGeneratorLocation) {
		return attrs
	}

	generator := stack[0]
	out := attrs.Clone()
	out[AttrGeneratorName] = attrs[AttrName]
	out[AttrGeneratorFunction] = attr.StringValue(generator.Name)
	out[AttrGeneratorLocation] = attr.StringValue(generator.Location.PathAndLine())
	return out
}
