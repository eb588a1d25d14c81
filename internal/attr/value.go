package attr

import (
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/label"
)

// Value is one attribute value. The set of implementations is closed: only
// the variants declared in this file satisfy it.
type Value interface {
	// Type returns the variant's attribute type.
	Type() Type
	// String renders the value the way a build file would spell it.
	String() string
	// Native returns a plain Go representation suitable for encoding.
	Native() any

	isValue()
}

type StringValue string

type IntValue int64

type BoolValue bool

type StringListValue []string

type LabelValue label.Label

type LabelListValue []label.Label

func (StringValue) Type() Type     { return String }
func (IntValue) Type() Type        { return Int }
func (BoolValue) Type() Type       { return Bool }
func (StringListValue) Type() Type { return StringList }
func (LabelValue) Type() Type      { return Label }
func (LabelListValue) Type() Type  { return LabelList }

func (StringValue) isValue()     {}
func (IntValue) isValue()        {}
func (BoolValue) isValue()       {}
func (StringListValue) isValue() {}
func (LabelValue) isValue()      {}
func (LabelListValue) isValue()  {}

func (v StringValue) String() string { return strconv.Quote(string(v)) }
func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }

func (v BoolValue) String() string {
	if v {
		return "True"
	}
	return "False"
}

func (v StringListValue) String() string {
	quoted := make([]string, len(v))
	for i, s := range v {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func (v LabelValue) String() string { return strconv.Quote(label.Label(v).String()) }

func (v LabelListValue) String() string {
	quoted := make([]string, len(v))
	for i, l := range v {
		quoted[i] = strconv.Quote(l.String())
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func (v StringValue) Native() any { return string(v) }
func (v IntValue) Native() any    { return int64(v) }
func (v BoolValue) Native() any   { return bool(v) }

func (v StringListValue) Native() any { return slices.Clone([]string(v)) }

func (v LabelValue) Native() any { return label.Label(v).String() }

func (v LabelListValue) Native() any {
	out := make([]string, len(v))
	for i, l := range v {
		out[i] = l.String()
	}
	return out
}

// Zero returns the empty value of type t.
func Zero(t Type) Value {
	switch t {
	case String:
		return StringValue("")
	case Int:
		return IntValue(0)
	case Bool:
		return BoolValue(false)
	case StringList:
		return StringListValue{}
	case Label:
		return nil
	case LabelList:
		return LabelListValue{}
	}
	return nil
}
