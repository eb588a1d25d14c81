package attr

import (
	"fmt"

	"github.com/specialistvlad/buildgraph/internal/label"
)

// LabelParser turns a label string found in an attribute into a Label,
// typically relative to the package that declares the rule.
type LabelParser func(raw string) (label.Label, error)

// ConversionError reports a value that cannot take the declared type of an
// attribute.
type ConversionError struct {
	Attribute string
	Expected  Type
	Got       Type
	Err       error
}

// Error implements the error interface for ConversionError.
func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("attribute '%s': expected value of type '%s': %v", e.Attribute, e.Expected, e.Err)
	}
	return fmt.Sprintf("attribute '%s': expected value of type '%s', but got '%s'", e.Attribute, e.Expected, e.Got)
}

// Unwrap returns the underlying cause, if any.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Convert maps a raw value onto the declared type t of attribute name. It is
// total: every input either yields a value whose Type() is t or a
// *ConversionError.
func Convert(name string, v Value, t Type, parse LabelParser) (Value, error) {
	if v == nil {
		return nil, &ConversionError{Attribute: name, Expected: t, Err: fmt.Errorf("value is missing")}
	}
	if v.Type() == t {
		return v, nil
	}

	mismatch := &ConversionError{Attribute: name, Expected: t, Got: v.Type()}

	switch t {
	case Label:
		s, ok := v.(StringValue)
		if !ok {
			return nil, mismatch
		}
		l, err := parse(string(s))
		if err != nil {
			return nil, &ConversionError{Attribute: name, Expected: t, Got: v.Type(), Err: err}
		}
		return LabelValue(l), nil

	case LabelList:
		list, ok := v.(StringListValue)
		if !ok {
			return nil, mismatch
		}
		labels := make(LabelListValue, 0, len(list))
		for _, raw := range list {
			l, err := parse(raw)
			if err != nil {
				return nil, &ConversionError{Attribute: name, Expected: t, Got: v.Type(), Err: err}
			}
			labels = append(labels, l)
		}
		return labels, nil

	case Bool:
		i, ok := v.(IntValue)
		if !ok || (i != 0 && i != 1) {
			return nil, mismatch
		}
		return BoolValue(i == 1), nil
	}

	return nil, mismatch
}
