package pkgcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/location"
	"github.com/specialistvlad/buildgraph/internal/packages"
)

// fakeLocator knows a fixed set of packages.
type fakeLocator struct {
	packages map[label.PackageID]string
	deleted  map[label.PackageID]bool
}

func (l *fakeLocator) BuildFile(id label.PackageID) (string, bool) {
	f, ok := l.packages[id]
	return f, ok
}

func (l *fakeLocator) IsPackage(id label.PackageID) bool {
	_, ok := l.packages[id]
	return ok && !l.deleted[id]
}

func (l *fakeLocator) IsDeleted(id label.PackageID) bool { return l.deleted[id] }

func locatorFor(ids ...label.PackageID) *fakeLocator {
	l := &fakeLocator{packages: map[label.PackageID]string{}, deleted: map[label.PackageID]bool{}}
	for _, id := range ids {
		l.packages[id] = id.Path() + "/BUILD"
	}
	return l
}

// fakeLoader builds empty packages. Each load emits one warning. If gate
// is set, loads block until it is closed or ctx ends.
type fakeLoader struct {
	calls         atomic.Int32
	gate          chan struct{}
	err           error
	panicWith     any
	containErrors bool

	mu      sync.Mutex
	started chan struct{}
}

func (l *fakeLoader) Load(ctx context.Context, handler events.Handler, id label.PackageID, buildFile string) (*packages.Package, error) {
	l.calls.Add(1)
	l.mu.Lock()
	if l.started != nil {
		close(l.started)
		l.started = nil
	}
	l.mu.Unlock()

	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.panicWith != nil {
		panic(l.panicWith)
	}
	if l.err != nil {
		return nil, l.err
	}

	handler.Handle(events.Event{
		Kind:     events.Warning,
		Location: location.Location{File: buildFile, Line: 1, Column: 1},
		Message:  "loaded " + id.String(),
	})

	pb := packages.NewPackageBuilder(id, buildFile, nil)
	if l.containErrors {
		pb.SetContainsErrors()
	}
	return pb.Build()
}
