package registry

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClass(name string, workspaceOnly bool, attrs ...packages.Attribute) *packages.RuleClass {
	return packages.MustNewRuleClass(name, workspaceOnly, attrs, packages.WithDoc(name+" rule"))
}

func TestRegister(t *testing.T) {
	r := New()
	r.Register(newClass("genrule", false))
	r.Register(newClass("local_repository", true))

	rc, ok := r.RuleClass("genrule")
	require.True(t, ok)
	assert.Equal(t, "genrule", rc.Name())
	assert.Equal(t, BuiltinSource, r.Source("genrule"))
	assert.Equal(t, []string{"genrule", "local_repository"}, r.RuleClassNames())
	assert.Equal(t, 2, r.Len())

	assert.PanicsWithValue(t, "rule class with name 'genrule' already registered (from <builtin>)", func() {
		r.Register(newClass("genrule", false))
	})
}

func TestRegister_UsesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New(WithLogger(logger))
	r.Register(newClass("genrule", false))

	assert.Contains(t, buf.String(), `msg="Registering rule class."`)
	assert.Contains(t, buf.String(), "name=genrule")
}

func TestFreeze(t *testing.T) {
	r := New()
	r.Register(newClass("genrule", false))
	r.Freeze()
	assert.True(t, r.Frozen())

	assert.Panics(t, func() { r.Register(newClass("filegroup", false)) })

	snapshot := r.RuleClasses()
	delete(snapshot, "genrule")
	_, ok := r.RuleClass("genrule")
	assert.True(t, ok, "RuleClasses returns a copy")
}

func TestRuleFactoryConsumesRegistry(t *testing.T) {
	r := New()
	r.Register(newClass("genrule", false, packages.Attribute{Name: "cmd", Type: attr.String}))
	r.Freeze()

	f := packages.NewRuleFactory(r)
	assert.Equal(t, []string{"genrule"}, f.RuleClassNames())
}

func TestValidateRegistry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ctx, _ := testutil.Context(t)
		r := New()
		r.Register(newClass("genrule", false))
		r.Register(newClass("local_repository", true))
		assert.NoError(t, r.ValidateRegistry(ctx))
	})

	t.Run("aggregates all problems", func(t *testing.T) {
		ctx, _ := testutil.Context(t)
		r := New()
		r.Register(newClass("my-rule", false))
		r.Register(newClass("print", false))
		r.Register(newClass("ok_rule", true, packages.Attribute{Name: "bad.attr", Type: attr.String}))

		err := r.ValidateRegistry(ctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "rule class 'my-rule' (<builtin>): name is not a valid identifier")
		assert.ErrorContains(t, err, "rule class 'print' (<builtin>): name is reserved")
		assert.ErrorContains(t, err, "attribute 'bad.attr': name is not a valid identifier")
	})

	t.Run("warns without workspace classes", func(t *testing.T) {
		ctx, logs := testutil.Context(t)
		r := New()
		r.Register(newClass("genrule", false))
		require.NoError(t, r.ValidateRegistry(ctx))
		assert.Contains(t, logs.String(), "No workspace-only rule class is registered.")
	})
}
