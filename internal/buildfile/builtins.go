package buildfile

import (
	"fmt"

	"github.com/specialistvlad/buildgraph/internal/location"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// ruleFunctions returns one builtin per rule class known to the factory.
func (ev *evaluation) ruleFunctions() starlark.StringDict {
	fns := make(starlark.StringDict)
	for _, name := range ev.factory.RuleClassNames() {
		fns[name] = starlark.NewBuiltin(name, ev.callRule)
	}
	fns["package_name"] = starlark.NewBuiltin("package_name", ev.packageName)
	return fns
}

// buildPredeclared returns the globals of BUILD and WORKSPACE files.
func (ev *evaluation) buildPredeclared() starlark.StringDict {
	return ev.ruleFunctions()
}

// bzlPredeclared returns the globals of .bzl files.
func (ev *evaluation) bzlPredeclared() starlark.StringDict {
	return starlark.StringDict{
		"native": &starlarkstruct.Module{Name: "native", Members: ev.ruleFunctions()},
	}
}

func (ev *evaluation) packageName(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.String(ev.pb.PackageID().Path()), nil
}

// callRule implements every rule function. Construction failures are
// reported and the call evaluates to None so the file keeps going.
func (ev *evaluation) callRule(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: rule functions accept keyword arguments only, got %d positional arguments", fn.Name(), len(args))
	}
	if path, ok := loadingModule(thread); ok {
		return nil, fmt.Errorf("%s: rules cannot be declared while loading %s", fn.Name(), path)
	}

	stack := thread.CallStack()
	inv := packages.RawRuleInvocation{
		RuleClass: fn.Name(),
		Location:  fromPosition(stack[0].Pos),
		CallStack: macroFrames(stack, fn.Name()),
	}

	attrs, err := convertKwargs(fn.Name(), kwargs, inv.Location)
	if err != nil {
		ev.report(inv.Location, err)
		return starlark.None, nil
	}
	inv.Attributes = attrs

	r, err := ev.factory.CreateAndAddRule(ev.pb, inv)
	if err != nil {
		ev.report(inv.Location, err)
		return starlark.None, nil
	}
	ev.logger.Debug("Rule declared.", "rule", r.Label().String(), "rule_class", fn.Name(), "generated", r.Provenance().Generated)
	return starlark.None, nil
}

// macroFrames converts the interpreter stack, outermost first and ending
// with the rule builtin itself, into macro frames. Each frame is located at
// the position it was called from. A trailing frame stands for the rule
// implementation, so a rule called directly from a build file yields exactly
// two frames.
func macroFrames(stack starlark.CallStack, ruleClass string) []packages.MacroFrame {
	frames := make([]packages.MacroFrame, 0, len(stack)+1)
	for i := 1; i < len(stack); i++ {
		frames = append(frames, packages.MacroFrame{
			Name:     stack[i].Name,
			Location: fromPosition(stack[i-1].Pos),
		})
	}
	return append(frames, packages.MacroFrame{
		Name:     ruleClass,
		Location: location.New(location.BuiltinFile, 0, 0),
	})
}

// callerLocation returns the call site of the builtin running on thread.
func callerLocation(thread *starlark.Thread) location.Location {
	if thread.CallStackDepth() < 2 {
		return location.Location{}
	}
	return fromPosition(thread.CallFrame(1).Pos)
}
