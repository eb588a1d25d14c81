// Package pkgcache loads packages on demand and caches them for the
// lifetime of the process.
//
// Store is the synchronization boundary of the loading pipeline. Each
// package identifier is constructed at most once: concurrent requests share
// the in-flight load, later requests get the cached instance. Diagnostics
// produced while a package is constructed are delivered only to the caller
// whose request triggered the construction.
package pkgcache
