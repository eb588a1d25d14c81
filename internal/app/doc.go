// Package app contains the core application logic. It wires the rule class
// registry, package discovery, the build file evaluator and the package store
// into one App, decoupled from any specific entrypoint like a CLI.
package app
