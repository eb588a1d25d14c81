package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/ctxlog"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames are predeclared by the build file interpreter and cannot be
// shadowed by a rule class.
var reservedNames = map[string]struct{}{
	"load":         {},
	"native":       {},
	"package_name": {},
	"print":        {},
	"None":         {},
	"True":         {},
	"False":        {},
}

// ValidateRegistry checks that every registered class can be exposed to build
// files. All problems are collected and reported together.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	hasWorkspaceClass := false
	for _, name := range r.RuleClassNames() {
		rc := r.classes[name]
		source := r.sources[name]

		if !identifierRe.MatchString(name) {
			errs = append(errs, fmt.Sprintf("rule class '%s' (%s): name is not a valid identifier", name, source))
		}
		if _, reserved := reservedNames[name]; reserved {
			errs = append(errs, fmt.Sprintf("rule class '%s' (%s): name is reserved", name, source))
		}
		for _, a := range rc.Attributes() {
			if !identifierRe.MatchString(a.Name) {
				errs = append(errs, fmt.Sprintf("rule class '%s' (%s), attribute '%s': name is not a valid identifier", name, source, a.Name))
			}
		}
		if rc.WorkspaceOnly() {
			hasWorkspaceClass = true
		}
		if rc.Doc() == "" {
			logger.Debug("Rule class has no documentation.", "rule_class", name, "source", source)
		}
	}

	if !hasWorkspaceClass && r.Len() > 0 {
		logger.Warn("No workspace-only rule class is registered.")
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
