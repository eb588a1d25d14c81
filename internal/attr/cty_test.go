package attr

import (
	"testing"

	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromCty(t *testing.T) {
	testCases := []struct {
		name      string
		value     cty.Value
		target    Type
		expectErr bool
		expected  Value
	}{
		{name: "string", value: cty.StringVal("x"), target: String, expected: StringValue("x")},
		{name: "int", value: cty.NumberIntVal(300), target: Int, expected: IntValue(300)},
		{name: "bool", value: cty.True, target: Bool, expected: BoolValue(true)},
		{name: "empty tuple as list", value: cty.EmptyTupleVal, target: StringList, expected: StringListValue{}},
		{
			name:     "tuple of strings",
			value:    cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
			target:   StringList,
			expected: StringListValue{"a", "b"},
		},
		{
			name:     "absolute label",
			value:    cty.StringVal("//tools:gen"),
			target:   Label,
			expected: LabelValue(label.Label{Package: "tools", Name: "gen"}),
		},
		{
			name:     "label list",
			value:    cty.TupleVal([]cty.Value{cty.StringVal("//a:b")}),
			target:   LabelList,
			expected: LabelListValue{{Package: "a", Name: "b"}},
		},
		{name: "relative label rejected", value: cty.StringVal(":gen"), target: Label, expectErr: true},
		{name: "fractional int", value: cty.NumberFloatVal(1.5), target: Int, expectErr: true},
		{name: "null", value: cty.NullVal(cty.String), target: String, expectErr: true},
		{name: "object as string", value: cty.EmptyObjectVal, target: String, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromCty(tc.value, tc.target)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
