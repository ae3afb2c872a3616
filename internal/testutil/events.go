package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/pasoboard/internal/events"
)

// RecordingPublisher is an events.Publisher that keeps every event it is given
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error // returned from SendEvent when set
}

func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// WaitForEvent waits for an event on a channel with timeout.
// Returns the event if received, or fails the test on timeout.
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}

// WaitForNoEvent verifies that no event is received within the timeout
func WaitForNoEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) {
	t.Helper()

	select {
	case event := <-ch:
		t.Fatalf("Unexpected event received: %+v", event)
	case <-time.After(timeout):
	}
}
