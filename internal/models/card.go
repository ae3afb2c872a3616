package models

import (
	"time"

	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Card represents a single card on the kanban board.
// Position is the 1-based rank of the card within its column.
// Assignee, DueDate and Priority are carried along but never read by the reorder engine.
type Card struct {
	ID       types.CardID   `json:"id"`
	ColumnID types.ColumnID `json:"columnId"`
	Title    string         `json:"title"`
	Position int            `json:"position"`
	Assignee string         `json:"assignee,omitempty"`
	DueDate  *time.Time     `json:"dueDate,omitempty"`
	Priority int            `json:"priority,omitempty"`
}
