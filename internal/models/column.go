package models

import "github.com/thenoetrevino/pasoboard/internal/types"

// Column represents a kanban board column (e.g., "Todo", "In Progress", "Done")
// Position is the 1-based rank of the column among its board's columns
type Column struct {
	ID       types.ColumnID `json:"id"`
	BoardID  types.BoardID  `json:"boardId"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
}
