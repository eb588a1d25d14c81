// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/buildgraph/internal/label"
)

// PackageBuilder collects the rules of one package while its build file is
// evaluated. It is owned by a single load and is not safe for concurrent use.
type PackageBuilder struct {
	id             label.PackageID
	buildFile      string
	resolver       label.Resolver
	rules          map[string]*Rule
	order          []*Rule
	containsErrors bool
	finalized      bool
}

// NewPackageBuilder returns an empty builder. A nil resolver selects
// label.DefaultResolver.
func NewPackageBuilder(id label.PackageID, buildFile string, resolver label.Resolver) *PackageBuilder {
	if resolver == nil {
		resolver = label.DefaultResolver{}
	}
	return &PackageBuilder{
		id:        id,
		buildFile: buildFile,
		resolver:  resolver,
		rules:     make(map[string]*Rule),
	}
}

func (pb *PackageBuilder) PackageID() label.PackageID { return pb.id }
func (pb *PackageBuilder) BuildFile() string          { return pb.buildFile }
func (pb *PackageBuilder) IsWorkspaceFile() bool      { return IsWorkspaceFile(pb.buildFile) }

// CreateLabel resolves a rule name within this package.
func (pb *PackageBuilder) CreateLabel(name string) (label.Label, error) {
	return pb.resolver.Resolve(pb.id, name)
}

// AddRule inserts r. A rule whose name is already taken is rejected with a
// *NameConflictError and the builder is left unchanged.
func (pb *PackageBuilder) AddRule(r *Rule) error {
	if pb.finalized {
		return ErrBuilderFinalized
	}
	if r.Package() != pb.id {
		return fmt.Errorf("rule %s does not belong to package %s", r.Label(), pb.id)
	}
	if existing, ok := pb.rules[r.Name()]; ok {
		return &NameConflictError{
			Name:        r.Name(),
			Package:     pb.id,
			Existing:    existing.Location(),
			Conflicting: r.Location(),
		}
	}
	pb.rules[r.Name()] = r
	pb.order = append(pb.order, r)
	return nil
}

// Rule returns the rule added under name.
func (pb *PackageBuilder) Rule(name string) (*Rule, bool) {
	r, ok := pb.rules[name]
	return r, ok
}

// Len returns the number of rules added so far.
func (pb *PackageBuilder) Len() int { return len(pb.order) }

// SetContainsErrors marks the package as partially built.
func (pb *PackageBuilder) SetContainsErrors() { pb.containsErrors = true }

func (pb *PackageBuilder) ContainsErrors() bool { return pb.containsErrors }

// Build finalizes the builder into an immutable Package. It can be called
// only once.
func (pb *PackageBuilder) Build() (*Package, error) {
	if pb.finalized {
		return nil, ErrBuilderFinalized
	}
	pb.finalized = true

	return &Package{
		id:             pb.id,
		buildFile:      pb.buildFile,
		rules:          slices.Clone(pb.order),
		index:          maps.Clone(pb.rules),
		containsErrors: pb.containsErrors,
	}, nil
}
