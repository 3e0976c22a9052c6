package board

import (
	"fmt"
	"testing"
)

func TestEventLogRing(t *testing.T) {
	el := NewEventLog(5)

	for i := 0; i < 8; i++ {
		el.Append(NewEvent(EventClaim, i, fmt.Sprintf("cell %d", i)))
	}

	if el.Len() != 5 {
		t.Fatalf("expected log trimmed to 5, got %d", el.Len())
	}

	recent := el.Recent(0)
	if len(recent) != 5 {
		t.Fatalf("expected all 5 events, got %d", len(recent))
	}
	// Oldest first, and only the newest five survive.
	for i, e := range recent {
		if e.Index != i+3 {
			t.Errorf("position %d: expected index %d, got %d", i, i+3, e.Index)
		}
	}

	last2 := el.Recent(2)
	if len(last2) != 2 || last2[0].Index != 6 || last2[1].Index != 7 {
		t.Fatalf("Recent(2) returned %+v", last2)
	}
}

func TestEventLogNotifies(t *testing.T) {
	el := NewEventLog(10)

	var seen []Event
	el.OnEvent = func(e Event) { seen = append(seen, e) }

	e := NewEvent(EventEdit, 42, "meadow")
	el.Append(e)

	if len(seen) != 1 || seen[0].ID != e.ID {
		t.Fatalf("observer saw %+v", seen)
	}
	if seen[0].ID == "" {
		t.Error("event has no ID")
	}
	if seen[0].At.IsZero() {
		t.Error("event has no timestamp")
	}
}
