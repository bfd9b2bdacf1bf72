package notify

import "time"

// EventType classifies a job outcome
type EventType string

const (
	EventCompleted EventType = "completed"
	EventRetried   EventType = "retried"
	EventFailed    EventType = "failed"
	EventSkipped   EventType = "skipped"
)

// Event describes one job outcome. The worker publishes these on a
// stream the application subscribes to for metrics and logging,
// decoupled from handler logic.
type Event struct {
	Type    EventType
	JobID   string
	Kind    Kind
	Attempt int
	Error   string
	NextRun time.Time // set for retries and recurring recycles
}

// Events is a buffered outcome stream. Publishing never blocks: if no
// subscriber keeps up, events are dropped rather than stalling the
// worker.
type Events struct {
	ch chan Event
}

// NewEvents creates an event stream with the given buffer size
func NewEvents(buffer int) *Events {
	if buffer <= 0 {
		buffer = 64
	}
	return &Events{ch: make(chan Event, buffer)}
}

// Publish emits an event, dropping it if the buffer is full
func (e *Events) Publish(ev Event) {
	select {
	case e.ch <- ev:
	default:
	}
}

// Subscribe returns the receive side of the stream
func (e *Events) Subscribe() <-chan Event {
	return e.ch
}
