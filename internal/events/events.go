// Package events carries the diagnostics produced while packages are built.
//
// Construction problems are never fatal for a package: they are reported as
// events to a Handler chosen by the caller and evaluation goes on. A Stored
// handler buffers events so that they can be replayed later to the caller
// that asked for the package.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/specialistvlad/buildgraph/internal/location"
)

// Kind classifies an event.
type Kind int

const (
	Debug Kind = iota
	Info
	Warning
	Error
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Event is a single diagnostic.
type Event struct {
	Kind     Kind
	Location location.Location
	Message  string
}

// String renders the event the way it is shown to users.
func (e Event) String() string {
	if e.Location.IsZero() {
		return e.Kind.String() + ": " + e.Message
	}
	return e.Kind.String() + ": " + e.Location.String() + ": " + e.Message
}

// Handler receives events. Implementations must be safe for concurrent use.
type Handler interface {
	Handle(Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Event)

// Handle implements Handler.
func (f HandlerFunc) Handle(e Event) { f(e) }

// Discard drops every event.
var Discard Handler = HandlerFunc(func(Event) {})

// ErrorEvent builds an Error event from err. If err carries its own location
// (see Located) that location wins over loc.
func ErrorEvent(loc location.Location, err error) Event {
	var located Located
	if errors.As(err, &located) {
		if l := located.EventLocation(); !l.IsZero() {
			loc = l
		}
	}
	return Event{Kind: Error, Location: loc, Message: err.Error()}
}

// Located is implemented by errors that know where they happened.
type Located interface {
	EventLocation() location.Location
}

// Stored collects events in order. The zero value is ready to use.
type Stored struct {
	mu     sync.Mutex
	events []Event
	errors bool
}

// Handle implements Handler.
func (s *Stored) Handle(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if e.Kind == Error {
		s.errors = true
	}
}

// Events returns a snapshot of the collected events.
func (s *Stored) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// HasErrors reports whether at least one Error event was collected.
func (s *Stored) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// ReplayOn forwards every collected event to h, in order.
func (s *Stored) ReplayOn(h Handler) {
	if h == nil {
		return
	}
	for _, e := range s.Events() {
		h.Handle(e)
	}
}

// Tee returns a Handler that forwards every event to each of handlers in
// order. Nil handlers are skipped.
func Tee(handlers ...Handler) Handler {
	return HandlerFunc(func(e Event) {
		for _, h := range handlers {
			if h != nil {
				h.Handle(e)
			}
		}
	})
}

// logHandler forwards events to a slog.Logger.
type logHandler struct {
	logger *slog.Logger
	level  *slog.Level
}

// LogOption configures a Handler created by NewLogHandler.
type LogOption func(*logHandler)

// AtLevel logs every event at level and records its kind as an attribute.
func AtLevel(level slog.Level) LogOption {
	return func(h *logHandler) { h.level = &level }
}

// NewLogHandler returns a Handler that writes every event to logger at the
// matching level.
func NewLogHandler(logger *slog.Logger, opts ...LogOption) Handler {
	h := &logHandler{logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle implements Handler.
func (h *logHandler) Handle(e Event) {
	level := slog.LevelInfo
	switch e.Kind {
	case Debug:
		level = slog.LevelDebug
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	attrs := []any{}
	if h.level != nil {
		level = *h.level
		attrs = append(attrs, "kind", e.Kind.String())
	}
	if !e.Location.IsZero() {
		attrs = append(attrs, "location", e.Location.String())
	}
	h.logger.Log(context.Background(), level, e.Message, attrs...)
}
