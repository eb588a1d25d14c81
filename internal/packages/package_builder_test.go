package packages

import (
	"testing"

	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRule(t *testing.T, pb *PackageBuilder, name string, line int) *Rule {
	t.Helper()
	r, err := CreateRule(pb, testClasses()["genrule"], named(name), buildLoc(line), nil)
	require.NoError(t, err)
	return r
}

func TestPackageBuilder_Uniqueness(t *testing.T) {
	testCases := []struct {
		name     string
		sequence []string
		want     []string
	}{
		{name: "distinct", sequence: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "adjacent duplicate", sequence: []string{"a", "a", "b"}, want: []string{"a", "b"}},
		{name: "late duplicate", sequence: []string{"a", "b", "c", "a", "b"}, want: []string{"a", "b", "c"}},
		{name: "all same", sequence: []string{"x", "x", "x"}, want: []string{"x"}},
		{name: "empty", sequence: nil, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pb := NewPackageBuilder("pkg", "pkg/BUILD", nil)
			first := map[string]*Rule{}
			for i, name := range tc.sequence {
				r := mustRule(t, pb, name, i+1)
				err := pb.AddRule(r)
				if _, seen := first[name]; seen {
					var conflict *NameConflictError
					require.ErrorAs(t, err, &conflict)
					assert.Equal(t, first[name].Location(), conflict.Existing)
					got, ok := pb.Rule(name)
					require.True(t, ok)
					assert.Same(t, first[name], got)
					continue
				}
				require.NoError(t, err)
				first[name] = r
			}

			pkg, err := pb.Build()
			require.NoError(t, err)
			assert.Equal(t, tc.want, pkg.RuleNames())
			assert.Equal(t, len(tc.want), pkg.Len())
			for name, r := range first {
				got, ok := pkg.Rule(name)
				require.True(t, ok)
				assert.Same(t, r, got)
			}
		})
	}
}

func TestPackageBuilder_Finalize(t *testing.T) {
	pb := NewPackageBuilder("pkg", "pkg/BUILD", nil)
	require.NoError(t, pb.AddRule(mustRule(t, pb, "a", 1)))
	pb.SetContainsErrors()

	pkg, err := pb.Build()
	require.NoError(t, err)
	assert.True(t, pkg.ContainsErrors())
	assert.Equal(t, label.PackageID("pkg"), pkg.ID())
	assert.Equal(t, "pkg/BUILD", pkg.BuildFile())
	assert.False(t, pkg.IsWorkspaceFile())
	assert.Equal(t, "//pkg", pkg.String())

	_, err = pb.Build()
	assert.ErrorIs(t, err, ErrBuilderFinalized)
	assert.ErrorIs(t, pb.AddRule(mustRule(t, pb, "b", 2)), ErrBuilderFinalized)
	assert.Equal(t, 1, pkg.Len(), "package is not affected by later builder use")

	rules := pkg.Rules()
	rules[0] = nil
	assert.NotNil(t, pkg.Rules()[0])
}

func TestPackageBuilder_RejectsForeignRule(t *testing.T) {
	other := NewPackageBuilder("other", "other/BUILD", nil)
	r := mustRule(t, other, "a", 1)

	pb := NewPackageBuilder("pkg", "pkg/BUILD", nil)
	err := pb.AddRule(r)
	assert.EqualError(t, err, "rule //other:a does not belong to package //pkg")
	assert.Equal(t, 0, pb.Len())
}

func TestIsWorkspaceFile(t *testing.T) {
	assert.True(t, IsWorkspaceFile("WORKSPACE"))
	assert.True(t, IsWorkspaceFile("/repo/WORKSPACE.bazel"))
	assert.True(t, IsWorkspaceFile("my.WORKSPACE"))
	assert.False(t, IsWorkspaceFile("WORKSPACE/BUILD"))
	assert.False(t, IsWorkspaceFile("pkg/BUILD.bazel"))
	assert.False(t, IsWorkspaceFile(""))
}
