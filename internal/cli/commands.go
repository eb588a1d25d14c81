package cli

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/spf13/cobra"
)

// parsePackage accepts `//a/b`, `a/b` and `//` for the root package.
func parsePackage(raw string) (label.PackageID, error) {
	path := strings.TrimSuffix(strings.TrimPrefix(raw, "//"), "/")
	if err := label.ValidatePackageName(path); err != nil {
		return "", err
	}
	return label.PackageID(path), nil
}

func parsePackages(args []string) ([]label.PackageID, error) {
	ids := make([]label.PackageID, 0, len(args))
	for _, arg := range args {
		id, err := parsePackage(arg)
		if err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newQueryCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "query [package...]",
		Short: "Load packages and print their rules",
		Long: `Load the given packages, or every package of the workspace when none is
given, and print the rules they declare. Diagnostics are written to stderr.
The command fails if any requested package does not exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePackages(args)
			if err != nil {
				return err
			}

			diagnostics := &events.Stored{}
			results, err := s.app.Query(cmd.Context(), diagnostics, ids)
			if err != nil {
				return err
			}
			for _, e := range diagnostics.Events() {
				fmt.Fprintln(s.errW, e.String())
			}

			views := []packageView{}
			missing := 0
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(s.errW, "ERROR: %v\n", res.Err)
					missing++
					continue
				}
				views = append(views, newPackageView(res.Package))
			}

			if err := render(s.outW, s.app.Config().Output, views, func() error {
				return writePackagesText(s.outW, views)
			}); err != nil {
				return err
			}

			if missing > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d packages could not be loaded", missing, len(results))}
			}
			return nil
		},
	}
}

func newExistsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <package>",
		Short: "Report whether a package exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePackages(args)
			if err != nil {
				return err
			}
			ok := s.app.Exists(cmd.Context(), ids[0])
			if err := render(s.outW, s.app.Config().Output, ok, func() error {
				_, err := fmt.Fprintln(s.outW, ok)
				return err
			}); err != nil {
				return err
			}
			if !ok {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

func newPackagesCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List the packages of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := s.app.Packages(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, len(ids))
			for i, id := range ids {
				names[i] = id.String()
			}
			return render(s.outW, s.app.Config().Output, names, func() error {
				for _, name := range names {
					if _, err := fmt.Fprintln(s.outW, name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRuleClassesCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "rule-classes",
		Short: "List the registered rule classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			classes := s.app.RuleClasses()
			views := make([]ruleClassView, len(classes))
			for i, rc := range classes {
				views[i] = newRuleClassView(rc, s.app.Registry().Source(rc.Name()))
			}
			return render(s.outW, s.app.Config().Output, views, func() error {
				return writeRuleClassesText(s.outW, views)
			})
		},
	}
}
