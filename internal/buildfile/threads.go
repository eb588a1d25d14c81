package buildfile

import (
	"context"

	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"go.starlark.net/starlark"
)

// Thread-local keys.
const (
	packageKey = "buildgraph.package"
	loadingKey = "buildgraph.loading"
)

// newThread creates a thread that is cancelled together with the
// evaluation context.
func (ev *evaluation) newThread(name string, pkg label.PackageID) *starlark.Thread {
	thread := &starlark.Thread{
		Name:  name,
		Print: ev.print,
		Load:  ev.load,
	}
	thread.SetLocal(packageKey, pkg)

	ctx := ev.ctx
	ev.stops = append(ev.stops, context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	}))
	return thread
}

// threadPackage returns the package that relative labels in the code
// running on thread are resolved against.
func threadPackage(thread *starlark.Thread) label.PackageID {
	pkg, _ := thread.Local(packageKey).(label.PackageID)
	return pkg
}

// loadingModule returns the .bzl file being loaded on thread, if any.
func loadingModule(thread *starlark.Thread) (string, bool) {
	path, ok := thread.Local(loadingKey).(string)
	return path, ok
}

func (ev *evaluation) print(thread *starlark.Thread, msg string) {
	loc := callerLocation(thread)
	ev.logger.Debug("Build file print.", "location", loc.String(), "message", msg)
	ev.handler.Handle(events.Event{Kind: events.Debug, Location: loc, Message: msg})
}
