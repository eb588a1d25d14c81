// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/label"
)

// IsWorkspaceFile reports whether path names a workspace file. Any base name
// containing "WORKSPACE" qualifies.
func IsWorkspaceFile(path string) bool {
	return strings.Contains(filepath.Base(path), "WORKSPACE")
}

// Package is the immutable set of rules declared by one build file.
type Package struct {
	id             label.PackageID
	buildFile      string
	rules          []*Rule
	index          map[string]*Rule
	containsErrors bool
}

func (p *Package) ID() label.PackageID { return p.id }
func (p *Package) BuildFile() string   { return p.buildFile }
func (p *Package) String() string      { return p.id.String() }

// IsWorkspaceFile reports whether the package was read from a workspace file.
func (p *Package) IsWorkspaceFile() bool { return IsWorkspaceFile(p.buildFile) }

// ContainsErrors reports whether any error was reported while the package
// was built. The rules that were created successfully are still present.
func (p *Package) ContainsErrors() bool { return p.containsErrors }

// Rule returns the rule with the given name.
func (p *Package) Rule(name string) (*Rule, bool) {
	r, ok := p.index[name]
	return r, ok
}

// Rules returns the rules in declaration order.
func (p *Package) Rules() []*Rule {
	return slices.Clone(p.rules)
}

// RuleNames returns the rule names in declaration order.
func (p *Package) RuleNames() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name()
	}
	return names
}

// Len returns the number of rules.
func (p *Package) Len() int { return len(p.rules) }
