// Package registry holds the rule classes known to a build graph session.
//
// Rule classes come from two places: Go modules compiled into the binary,
// which register their classes through the Module interface, and HCL
// manifests loaded at startup. Once populated the registry is validated and
// frozen; from then on it is read-only and is handed to the rule factory as
// an immutable snapshot.
package registry
