// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package packages provides the in-memory build graph data model: rule
// classes, the rules instantiated from them, and the packages that group
// rules declared by one build file.
//
// # Core Concepts
//
//   - RuleClass: the schema of a kind of rule. It declares which attributes a
//     rule accepts, their types and defaults, and whether the class may only
//     appear in the workspace file.
//
//   - Rule: one validated, immutable node of the build graph. It is identified
//     by its label and carries a complete, type-checked attribute map plus the
//     provenance of the macro that generated it, if any.
//
//   - PackageBuilder: the mutable staging area used while one build file is
//     evaluated. It owns the name to rule mapping and rejects name conflicts.
//
//   - Package: the immutable result of a PackageBuilder. Once built it can be
//     read from any number of goroutines without synchronization.
//
// # Construction Flow
//
// The build file interpreter turns every rule call into a RawRuleInvocation
// and hands it to a RuleFactory. The factory validates the name, resolves
// the label, enforces workspace placement, attributes macro provenance and
// delegates schema validation to the RuleClass. The resulting Rule is added
// to the PackageBuilder by the caller.
//
// Every failure is an explicit error value. A RuleConstructionError or a
// NameConflictError concerns a single rule only: the driver reports it,
// marks the package as containing errors and moves on to the next rule.
package packages
