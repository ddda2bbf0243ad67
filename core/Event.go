package core

type EventKind string

const (
	EventFound    EventKind = "found"
	EventNotFound EventKind = "not-found"
	EventError    EventKind = "error"
	EventRetry    EventKind = "retry"
	EventGiveUp   EventKind = "giveup"
)

// Event is a progress notification emitted while probing.
type Event struct {
	Kind       EventKind
	URL        string
	StatusCode int
	Signed     bool
	ErrorClass string
	Err        error
	Attempt    int
	Retries    int
}

// EventSink receives events from concurrently running probes and must be
// safe for concurrent use.
type EventSink interface {
	Emit(event Event)
}

// EventSinkFunc adapts a function to an EventSink.
type EventSinkFunc func(event Event)

func (f EventSinkFunc) Emit(event Event) {
	f(event)
}

// DiscardEvents is an EventSink that drops everything.
var DiscardEvents EventSink = EventSinkFunc(func(Event) {})
