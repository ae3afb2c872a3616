package events

import (
	"time"

	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ProtocolVersion is carried on every wire message
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged EventType = "board_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// ChangeKind narrows a board change to what was touched
type ChangeKind string

const (
	ChangeCards   ChangeKind = "cards"
	ChangeColumns ChangeKind = "columns"
	ChangeBoard   ChangeKind = "board"
)

// Event is a board change notification
type Event struct {
	Type       EventType     `json:"type"`
	BoardID    types.BoardID `json:"boardId"`        // 0 = every board
	Kind       ChangeKind    `json:"kind,omitempty"` // what changed
	ActorID    types.UserID  `json:"actorId,omitempty"`
	Count      int           `json:"count,omitempty"` // number of rows written
	Timestamp  time.Time     `json:"timestamp"`
	SequenceID int64         `json:"sequenceId"` // assigned by the hub, per connection ordering
}

// SubscribeMessage is sent by clients to choose a board
type SubscribeMessage struct {
	BoardID types.BoardID `json:"boardId"` // 0 = all boards
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// Matches reports whether an event for boardID should reach a subscriber of sub
func (sub SubscribeMessage) Matches(boardID types.BoardID) bool {
	return boardID == 0 || sub.BoardID == 0 || sub.BoardID == boardID
}
