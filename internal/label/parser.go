package label

import "strings"

// New builds a label from an already split package and name, validating both.
func New(pkg PackageID, name string) (Label, error) {
	if err := ValidatePackageName(string(pkg)); err != nil {
		return Label{}, err
	}
	if err := ValidateTargetName(name); err != nil {
		return Label{}, err
	}
	return Label{Package: pkg, Name: name}, nil
}

// Parse creates a Label from an absolute label string such as `//a/b:c`,
// `//a/b` (short for `//a/b:b`) or `@//a/b:c`.
func Parse(raw string) (Label, error) {
	s := strings.TrimPrefix(raw, "@")
	if !strings.HasPrefix(s, "//") {
		return Label{}, &SyntaxError{Input: raw, Msg: "absolute labels must begin with '//'"}
	}
	s = s[2:]

	pkg, name, hasName := strings.Cut(s, ":")
	if !hasName {
		if pkg == "" {
			return Label{}, &SyntaxError{Input: raw, Msg: "the root package requires an explicit target name"}
		}
		name = pkg[strings.LastIndex(pkg, "/")+1:]
	}

	l, err := New(PackageID(pkg), name)
	if err != nil {
		return Label{}, &SyntaxError{Input: raw, Msg: err.(*SyntaxError).Msg}
	}
	return l, nil
}

// ParseRelative parses a label that may be relative to pkg: `:name` and
// `name` both refer to a target in pkg, absolute labels are parsed as is.
func ParseRelative(pkg PackageID, raw string) (Label, error) {
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "@") {
		return Parse(raw)
	}
	name := strings.TrimPrefix(raw, ":")
	if err := ValidateTargetName(name); err != nil {
		return Label{}, &SyntaxError{Input: raw, Msg: err.(*SyntaxError).Msg}
	}
	return Label{Package: pkg, Name: name}, nil
}
