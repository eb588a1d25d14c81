// Package location describes positions inside build files.
package location

import (
	"fmt"
	"path/filepath"
)

// BuiltinFile is the pseudo file name used for frames that have no source,
// such as a rule class implementation.
const BuiltinFile = "<builtin>"

// Location is a position inside a source file. Line and Column are 1-based;
// zero means unknown.
type Location struct {
	File   string
	Line   int
	Column int
}

// New creates a Location for the given file and line.
func New(file string, line, column int) Location {
	return Location{File: file, Line: line, Column: column}
}

// IsZero reports whether the location carries no information at all.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// BaseName returns the last element of the file path.
func (l Location) BaseName() string {
	if l.File == "" {
		return ""
	}
	return filepath.Base(l.File)
}

// PathAndLine renders the location as `file:line`.
func (l Location) PathAndLine() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// String renders the location as `file:line:column`, dropping unknown parts.
func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	if l.Column == 0 {
		return l.PathAndLine()
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}
