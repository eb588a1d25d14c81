package buildfile

import (
	"fmt"

	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/location"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"go.starlark.net/starlark"
)

// convertKwargs maps the keyword arguments of a rule call onto raw
// attribute values. Arguments bound to None are left unset.
func convertKwargs(ruleClass string, kwargs []starlark.Tuple, loc location.Location) (attr.Map, error) {
	attrs := make(attr.Map, len(kwargs))
	name := ""
	for _, kv := range kwargs {
		if k := string(kv[0].(starlark.String)); k == packages.AttrName {
			if s, ok := kv[1].(starlark.String); ok {
				name = string(s)
			}
		}
	}

	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		v, err := toAttrValue(kv[1])
		if err != nil {
			return nil, &packages.RuleConstructionError{
				Kind:      packages.KindInvalidAttributeValue,
				RuleClass: ruleClass,
				Name:      name,
				Attribute: key,
				Location:  loc,
				Err:       fmt.Errorf("attribute '%s': %w", key, err),
			}
		}
		if v != nil {
			attrs[key] = v
		}
	}
	return attrs, nil
}

// toAttrValue converts a Starlark value into its raw attribute form. None
// converts to a nil Value.
func toAttrValue(v starlark.Value) (attr.Value, error) {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return attr.StringValue(x), nil
	case starlark.Bool:
		return attr.BoolValue(x), nil
	case starlark.Int:
		i, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", x)
		}
		return attr.IntValue(i), nil
	case *starlark.List, starlark.Tuple:
		seq := x.(starlark.Indexable)
		out := make(attr.StringListValue, 0, seq.Len())
		for i := 0; i < seq.Len(); i++ {
			s, ok := seq.Index(i).(starlark.String)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, but element %d is of type %s", i, seq.Index(i).Type())
			}
			out = append(out, string(s))
		}
		return out, nil
	}
	return nil, fmt.Errorf("values of type %s are not supported", v.Type())
}
