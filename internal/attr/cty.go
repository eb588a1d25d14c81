package attr

import (
	"fmt"

	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyTypes maps each attribute type onto the cty type its values travel as.
var ctyTypes = map[Type]cty.Type{
	String:     cty.String,
	Int:        cty.Number,
	Bool:       cty.Bool,
	StringList: cty.List(cty.String),
	Label:      cty.String,
	LabelList:  cty.List(cty.String),
}

// CtyType returns the cty type used to carry values of t.
func CtyType(t Type) cty.Type {
	if ct, ok := ctyTypes[t]; ok {
		return ct
	}
	return cty.DynamicPseudoType
}

// FromCty converts a cty value, such as a default decoded from a rule class
// manifest, into a Value of type t. Label strings must be absolute.
func FromCty(v cty.Value, t Type) (Value, error) {
	if v.IsNull() {
		return nil, fmt.Errorf("null value for type '%s'", t)
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value for type '%s' is not known statically", t)
	}

	converted, err := convert.Convert(v, CtyType(t))
	if err != nil {
		return nil, fmt.Errorf("cannot use %s as '%s': %w", v.Type().FriendlyName(), t, err)
	}

	switch t {
	case String:
		return StringValue(converted.AsString()), nil

	case Int:
		var i int64
		if err := gocty.FromCtyValue(converted, &i); err != nil {
			return nil, fmt.Errorf("cannot use number as 'int': %w", err)
		}
		return IntValue(i), nil

	case Bool:
		return BoolValue(converted.True()), nil

	case StringList:
		var list []string
		if err := gocty.FromCtyValue(converted, &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []string{}
		}
		return StringListValue(list), nil

	case Label:
		l, err := label.Parse(converted.AsString())
		if err != nil {
			return nil, err
		}
		return LabelValue(l), nil

	case LabelList:
		var raw []string
		if err := gocty.FromCtyValue(converted, &raw); err != nil {
			return nil, err
		}
		labels := make(LabelListValue, 0, len(raw))
		for _, s := range raw {
			l, err := label.Parse(s)
			if err != nil {
				return nil, err
			}
			labels = append(labels, l)
		}
		return labels, nil
	}

	return nil, fmt.Errorf("unsupported attribute type %s", t)
}
