package label

import "strings"

// ExternalPackage is the package that holds the rules of the workspace file.
const ExternalPackage PackageID = "external"

// PackageID identifies a package by its path relative to the workspace root.
// The empty PackageID is the root package.
type PackageID string

// String renders the package in label form, e.g. `//foo/bar`.
func (p PackageID) String() string {
	return "//" + string(p)
}

// Path returns the package path relative to the workspace root.
func (p PackageID) Path() string {
	return string(p)
}

// IsRoot reports whether p is the root package.
func (p PackageID) IsRoot() bool {
	return p == ""
}

// Label is the canonical, package-qualified identifier of a rule.
type Label struct {
	Package PackageID
	Name    string
}

// String serializes the Label into its canonical `//pkg:name` form.
func (l Label) String() string {
	var sb strings.Builder
	sb.WriteString("//")
	sb.WriteString(string(l.Package))
	sb.WriteByte(':')
	sb.WriteString(l.Name)
	return sb.String()
}

// IsZero reports whether the label is unset.
func (l Label) IsZero() bool {
	return l.Package == "" && l.Name == ""
}
