/*
Package label provides the canonical identifiers of build graph nodes.

A label names a rule inside a package and has the canonical form
`//package/path:name`. The root package is written `//:name`. Package
identifiers are slash-separated paths relative to the workspace root.

This package enforces the naming rules for both halves of a label and
centralizes all formatting and parsing logic, so that every other component
sees the same notion of a legal name.
*/
package label
