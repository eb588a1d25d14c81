// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/location"
)

// ErrBuilderFinalized is returned when a PackageBuilder is used after Build.
var ErrBuilderFinalized = errors.New("package builder has already been finalized")

// ErrorKind classifies a RuleConstructionError.
type ErrorKind int

const (
	KindUnknownRuleClass ErrorKind = iota + 1
	KindMissingName
	KindNameNotString
	KindIllegalName
	KindWorkspaceOnly
	KindForbiddenInWorkspace
	KindUnknownAttribute
	KindAttributeType
	KindMissingAttribute
	KindInvalidAttributeValue
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknownRuleClass:
		return "unknown rule class"
	case KindMissingName:
		return "missing name"
	case KindNameNotString:
		return "name not a string"
	case KindIllegalName:
		return "illegal name"
	case KindWorkspaceOnly:
		return "workspace-only rule outside workspace file"
	case KindForbiddenInWorkspace:
		return "rule not allowed in workspace file"
	case KindUnknownAttribute:
		return "unknown attribute"
	case KindAttributeType:
		return "attribute type mismatch"
	case KindMissingAttribute:
		return "missing mandatory attribute"
	case KindInvalidAttributeValue:
		return "invalid attribute value"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// RuleConstructionError reports why a single rule could not be created. No
// partial rule is ever returned alongside it.
type RuleConstructionError struct {
	Kind      ErrorKind
	RuleClass string
	// Label is set once the rule name has been resolved.
	Label     *label.Label
	Name      string
	Attribute string
	Location  location.Location
	Err       error
}

// Error implements the error interface for RuleConstructionError.
func (e *RuleConstructionError) Error() string {
	switch e.Kind {
	case KindUnknownRuleClass:
		return fmt.Sprintf("unknown rule class '%s'", e.RuleClass)
	case KindMissingName:
		return fmt.Sprintf("%s rule has no 'name' attribute", e.RuleClass)
	case KindNameNotString:
		return fmt.Sprintf("%s 'name' attribute must be a string", e.RuleClass)
	case KindIllegalName:
		return fmt.Sprintf("illegal rule name: %s: %v", e.Name, e.Err)
	case KindWorkspaceOnly:
		return fmt.Sprintf("%s must be in the WORKSPACE file (used by %s)", e.RuleClass, e.labelString())
	case KindForbiddenInWorkspace:
		return fmt.Sprintf("%s cannot be in the WORKSPACE file (used by %s)", e.RuleClass, e.labelString())
	}

	target := e.labelString()
	if e.Err != nil {
		return fmt.Sprintf("%s rule '%s': %v", e.RuleClass, target, e.Err)
	}
	return fmt.Sprintf("%s rule '%s': %s", e.RuleClass, target, e.Kind)
}

func (e *RuleConstructionError) labelString() string {
	if e.Label != nil {
		return e.Label.String()
	}
	return e.Name
}

// Unwrap returns the underlying cause, if any.
func (e *RuleConstructionError) Unwrap() error {
	return e.Err
}

// EventLocation implements events.Located.
func (e *RuleConstructionError) EventLocation() location.Location {
	return e.Location
}

// NameConflictError reports a second rule with an already used name. The
// first rule stays in the package.
type NameConflictError struct {
	Name        string
	Package     label.PackageID
	Existing    location.Location
	Conflicting location.Location
}

// Error implements the error interface for NameConflictError.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("rule '%s' in package '%s' conflicts with existing rule declared at %s (conflicting declaration at %s)",
		e.Name, e.Package, e.Existing, e.Conflicting)
}

// EventLocation implements events.Located.
func (e *NameConflictError) EventLocation() location.Location {
	return e.Conflicting
}

// NoSuchPackageError reports that no package exists for an identifier.
type NoSuchPackageError struct {
	Package label.PackageID
	Reason  string
	Err     error
}

// Error implements the error interface for NoSuchPackageError.
func (e *NoSuchPackageError) Error() string {
	msg := fmt.Sprintf("no such package '%s'", e.Package)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *NoSuchPackageError) Unwrap() error {
	return e.Err
}
