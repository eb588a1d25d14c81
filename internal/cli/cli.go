package cli

import (
	"context"
	"io"

	"github.com/specialistvlad/buildgraph/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is a custom error type that includes a specific exit code. An
// empty Message means nothing is printed.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// session is the state shared by the commands of one invocation.
type session struct {
	outW io.Writer
	errW io.Writer
	v    *viper.Viper
	app  *app.App

	configLoaded bool
}

// NewRootCommand builds the buildgraph command tree. Command output goes to
// outW, logs and diagnostics to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	s := &session{outW: outW, errW: errW, v: viper.New()}

	root := &cobra.Command{
		Use:   "buildgraph",
		Short: "Evaluate build files into packages of rules",
		Long: `buildgraph evaluates the BUILD files of a workspace and reports the rules
they declare.

Rule classes are compiled in or declared in HCL manifests passed with
--rule-classes. Settings can also come from a .buildgraph.yaml file in the
workspace root and from BUILDGRAPH_* environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.setup,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.String("root", ".", "workspace root directory")
	flags.String("config", "", "config file (default is <root>/.buildgraph.yaml)")
	flags.StringSlice("rule-classes", nil, "HCL rule class manifests or directories, relative to the root")
	flags.StringSlice("deleted-packages", nil, "package patterns to treat as deleted")
	flags.StringSlice("build-file-names", nil, "build file names in lookup order (default BUILD.bazel,BUILD)")
	flags.String("log-level", "warn", "logging level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text, json or pretty")
	flags.Int("workers", 10, "number of packages loaded concurrently")
	flags.StringP("output", "o", "text", "output format: text, json or yaml")

	root.AddCommand(
		newQueryCommand(s),
		newExistsCommand(s),
		newPackagesCommand(s),
		newRuleClassesCommand(s),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	return nil
}
