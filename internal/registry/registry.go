package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/buildgraph/internal/packages"
)

// BuiltinSource is recorded as the source of classes registered from Go code.
const BuiltinSource = "<builtin>"

// Module is the interface that all rule class modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps rule class names to their definitions.
type Registry struct {
	classes map[string]*packages.RuleClass
	sources map[string]string
	frozen  bool
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration messages. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		classes: make(map[string]*packages.RuleClass),
		sources: make(map[string]string),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a rule class defined in Go code. Registering a duplicate
// name or registering after Freeze is a programmer error and panics.
func (r *Registry) Register(rc *packages.RuleClass) {
	r.mustRegister(rc, BuiltinSource)
}

func (r *Registry) mustRegister(rc *packages.RuleClass, source string) {
	if err := r.register(rc, source); err != nil {
		panic(err.Error())
	}
}

func (r *Registry) register(rc *packages.RuleClass, source string) error {
	if r.frozen {
		return fmt.Errorf("cannot register rule class '%s': registry is frozen", rc.Name())
	}
	if prev, exists := r.sources[rc.Name()]; exists {
		return fmt.Errorf("rule class with name '%s' already registered (from %s)", rc.Name(), prev)
	}
	r.logger.Debug("Registering rule class.", "name", rc.Name(), "source", source, "workspace_only", rc.WorkspaceOnly())
	r.classes[rc.Name()] = rc
	r.sources[rc.Name()] = source
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// RuleClass returns the named rule class.
func (r *Registry) RuleClass(name string) (*packages.RuleClass, bool) {
	rc, ok := r.classes[name]
	return rc, ok
}

// RuleClasses returns a copy of the name to class mapping. It implements
// packages.RuleClassProvider.
func (r *Registry) RuleClasses() map[string]*packages.RuleClass {
	return maps.Clone(r.classes)
}

// RuleClassNames returns all registered names, sorted.
func (r *Registry) RuleClassNames() []string {
	return slices.Sorted(maps.Keys(r.classes))
}

// Source returns where the named class was declared: BuiltinSource or the
// path of the manifest file.
func (r *Registry) Source(name string) string {
	return r.sources[name]
}

// Len returns the number of registered rule classes.
func (r *Registry) Len() int { return len(r.classes) }
