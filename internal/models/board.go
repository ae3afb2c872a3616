package models

import "github.com/thenoetrevino/pasoboard/internal/types"

// Board is the top-level container for an ordered set of columns
type Board struct {
	ID       types.BoardID `json:"id"`
	Name     string        `json:"name"`
	Archived bool          `json:"archived"`
	OwnerID  types.UserID  `json:"ownerId"`
}

// Member grants a user a role on a board
type Member struct {
	BoardID types.BoardID `json:"boardId"`
	UserID  types.UserID  `json:"userId"`
	Role    Role          `json:"role"`
}
