package attr

import "fmt"

// Type is the declared type of a rule class attribute.
type Type int

const (
	String Type = iota + 1
	Int
	Bool
	StringList
	Label
	LabelList
)

var typeNames = map[Type]string{
	String:     "string",
	Int:        "int",
	Bool:       "bool",
	StringList: "list(string)",
	Label:      "label",
	LabelList:  "list(label)",
}

// String returns the type in the notation used by rule class manifests.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsValid reports whether t is one of the declared types.
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown attribute type %q", s)
}
