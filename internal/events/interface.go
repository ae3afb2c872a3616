package events

import "context"

// Publisher sends board change events to connected watchers.
// Publishing is fire-and-forget; a failure never undoes the change it reports.
type Publisher interface {
	SendEvent(event Event) error
}

// Subscriber delivers board change events until ctx is done
type Subscriber interface {
	Listen(ctx context.Context) (<-chan Event, error)
}

// Compile-time verification that *Client implements Subscriber
var _ Subscriber = (*Client)(nil)
