// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package packages

import (
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/location"
)

// MacroFrame is one entry of the interpreter call stack at the time a rule
// function was called. Location is the position of the call made from this
// frame.
type MacroFrame struct {
	Name     string
	Location location.Location
}

// RawRuleInvocation is what the interpreter hands over for every rule call.
// CallStack is ordered outermost first.
type RawRuleInvocation struct {
	RuleClass  string
	Attributes attr.Map
	Location   location.Location
	CallStack  []MacroFrame
}
