package board

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	EventClaim  = "claim"
	EventEdit   = "edit"
	EventDenied = "denied"
)

// Event is one accepted or denied board mutation.
type Event struct {
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
	Kind  string    `json:"kind"`
	Index int       `json:"index"`
	Label string    `json:"label,omitempty"`
}

// NewEvent stamps a fresh event with an ID and the current time.
func NewEvent(kind string, index int, label string) Event {
	return Event{
		ID:    uuid.NewString(),
		At:    time.Now().UTC(),
		Kind:  kind,
		Index: index,
		Label: label,
	}
}

// EventLog keeps the most recent board events in memory.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	limit  int

	// OnEvent, when set, observes every appended event. Called on the
	// appender's goroutine, after the event is in the log.
	OnEvent func(Event)
}

// NewEventLog creates a log keeping at most limit events.
func NewEventLog(limit int) *EventLog {
	if limit <= 0 {
		limit = 1000
	}
	return &EventLog{limit: limit}
}

// Append records an event, trimming the oldest past the limit.
func (el *EventLog) Append(e Event) {
	el.mu.Lock()
	el.events = append(el.events, e)
	if len(el.events) > el.limit {
		el.events = el.events[len(el.events)-el.limit:]
	}
	fn := el.OnEvent
	el.mu.Unlock()

	if fn != nil {
		fn(e)
	}
}

// Recent returns up to n of the newest events, oldest first.
func (el *EventLog) Recent(n int) []Event {
	el.mu.Lock()
	defer el.mu.Unlock()

	start := 0
	if n > 0 && len(el.events) > n {
		start = len(el.events) - n
	}
	out := make([]Event, len(el.events)-start)
	copy(out, el.events[start:])
	return out
}

// Len returns how many events the log currently holds.
func (el *EventLog) Len() int {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.events)
}
