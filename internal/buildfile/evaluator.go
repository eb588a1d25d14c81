package buildfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/location"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Evaluator executes build files below a workspace root.
type Evaluator struct {
	root    string
	factory *packages.RuleFactory
}

// NewEvaluator returns an Evaluator resolving files relative to root.
func NewEvaluator(root string, factory *packages.RuleFactory) *Evaluator {
	return &Evaluator{root: root, factory: factory}
}

// Root returns the workspace root.
func (e *Evaluator) Root() string { return e.root }

// Evaluate executes the build file of pb and adds every rule it declares to
// pb. Problems in the file are reported to handler and mark the package as
// containing errors; they are not returned. The returned error is non-nil
// only if the file cannot be read or ctx is cancelled.
func (e *Evaluator) Evaluate(ctx context.Context, pb *packages.PackageBuilder, handler events.Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx).With("package", pb.PackageID().String(), "build_file", pb.BuildFile())
	logger.Debug("Evaluating build file.")

	src, err := os.ReadFile(e.path(pb.BuildFile()))
	if err != nil {
		return fmt.Errorf("reading build file %s: %w", pb.BuildFile(), err)
	}

	ev := &evaluation{
		Evaluator: e,
		ctx:       ctx,
		logger:    logger,
		pb:        pb,
		handler:   handler,
		modules:   make(map[string]*module),
	}
	defer ev.stopAll()

	thread := ev.newThread("build "+pb.BuildFile(), pb.PackageID())
	_, err = starlark.ExecFile(thread, pb.BuildFile(), src, ev.buildPredeclared())
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Debug("Build file evaluation cancelled.", "error", ctxErr)
		return ctxErr
	}
	if err != nil {
		ev.reportStarlarkError(err)
	}

	logger.Debug("Build file evaluated.", "rules", pb.Len(), "contains_errors", pb.ContainsErrors())
	return nil
}

func (e *Evaluator) path(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

// evaluation holds the state of one Evaluate call. Starlark execution is
// sequential, so no locking is needed.
type evaluation struct {
	*Evaluator
	ctx     context.Context
	logger  *slog.Logger
	pb      *packages.PackageBuilder
	handler events.Handler
	modules map[string]*module
	stops   []func() bool
}

func (ev *evaluation) stopAll() {
	for _, stop := range ev.stops {
		stop()
	}
}

// report sends err to the handler and marks the package as failed.
func (ev *evaluation) report(loc location.Location, err error) {
	ev.logger.Debug("Reporting build file error.", "location", loc.String(), "error", err)
	ev.handler.Handle(events.ErrorEvent(loc, err))
	ev.pb.SetContainsErrors()
}

func (ev *evaluation) reportStarlarkError(err error) {
	var (
		evalErr  *starlark.EvalError
		syntaxEr syntax.Error
		resolved resolve.ErrorList
	)
	switch {
	case errors.As(err, &evalErr):
		ev.report(innermostLocation(evalErr.CallStack), errors.New(evalErr.Msg))
	case errors.As(err, &syntaxEr):
		ev.report(fromPosition(syntaxEr.Pos), errors.New(syntaxEr.Msg))
	case errors.As(err, &resolved):
		for _, re := range resolved {
			ev.report(fromPosition(re.Pos), errors.New(re.Msg))
		}
	default:
		ev.report(location.New(ev.pb.BuildFile(), 0, 0), err)
	}
}

func fromPosition(pos syntax.Position) location.Location {
	return location.New(pos.Filename(), int(pos.Line), int(pos.Col))
}

// innermostLocation returns the position of the innermost frame that has a
// source position.
func innermostLocation(stack starlark.CallStack) location.Location {
	for i := len(stack) - 1; i >= 0; i-- {
		if pos := stack[i].Pos; pos.Filename() != location.BuiltinFile && pos.IsValid() {
			return fromPosition(pos)
		}
	}
	return location.Location{}
}
