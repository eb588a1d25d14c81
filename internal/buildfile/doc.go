// Package buildfile evaluates BUILD, WORKSPACE and .bzl files with the
// Starlark interpreter.
//
// Every registered rule class is exposed as a builtin function. A call such
// as
//
//	genrule(name = "gen", outs = ["out.txt"], cmd = "touch $@")
//
// is turned into a packages.RawRuleInvocation carrying the keyword arguments
// converted to attribute values, the call site and the interpreter call
// stack, and is handed to the rule factory. Rule errors are reported as
// events and do not stop the evaluation of the remaining file.
//
// .bzl files are reached through load() and see the rule functions through
// the `native` module, so macros can declare rules on behalf of the build
// file that calls them.
package buildfile
