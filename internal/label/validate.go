package label

import (
	"fmt"
	"strings"
)

// targetPunctuation lists the non-alphanumeric characters allowed in target
// names. '$' is deliberately absent so that unexpanded make variables such as
// `$(SRCS)` never become part of a label.
const targetPunctuation = "!%-@^_\"#&'()*+,;<=>?[]{|}~/.="

// packagePunctuation lists the non-alphanumeric characters allowed in
// package names.
const packagePunctuation = "/-._@"

// SyntaxError reports an illegal package or target name.
type SyntaxError struct {
	Input string
	Msg   string
}

// Error implements the error interface for SyntaxError.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid label '%s': %s", e.Input, e.Msg)
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ValidateTargetName checks that name may be used as the name part of a label.
func ValidateTargetName(name string) error {
	if msg := targetNameProblem(name); msg != "" {
		return &SyntaxError{Input: name, Msg: msg}
	}
	return nil
}

func targetNameProblem(name string) string {
	switch {
	case name == "":
		return "empty target name"
	case strings.HasPrefix(name, "/"):
		return "target names may not start with '/'"
	case strings.HasSuffix(name, "/"):
		return "target names may not end with '/'"
	case strings.Contains(name, "//"):
		return "target names may not contain '//' path separators"
	case strings.Contains(name, "$("):
		return "target names may not contain make variable references '$(...)'"
	}

	for _, c := range name {
		if !isAlnum(c) && !strings.ContainsRune(targetPunctuation, c) {
			return fmt.Sprintf("target names may not contain '%c'", c)
		}
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "target names may not contain up-level references '..'"
		}
		if segment == "." {
			return "target names may not contain '.' as a path segment"
		}
	}
	return ""
}

// ValidatePackageName checks that name is a legal package path. The empty
// string denotes the root package and is valid.
func ValidatePackageName(name string) error {
	if msg := packageNameProblem(name); msg != "" {
		return &SyntaxError{Input: "//" + name, Msg: msg}
	}
	return nil
}

func packageNameProblem(name string) string {
	if name == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(name, "/"):
		return "package names may not start with '/'"
	case strings.HasSuffix(name, "/"):
		return "package names may not end with '/'"
	case strings.Contains(name, "//"):
		return "package names may not contain '//' path separators"
	}

	for _, c := range name {
		if !isAlnum(c) && !strings.ContainsRune(packagePunctuation, c) {
			return "package names may contain only A-Z, a-z, 0-9, '/', '-', '.', '_' and '@'"
		}
	}

	for _, segment := range strings.Split(name, "/") {
		if strings.Trim(segment, ".") == "" {
			return "package name component contains only '.' characters"
		}
	}
	return ""
}
