package board

import "errors"

// Board-related errors
var (
	// Validation errors
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name is too long")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrInvalidColumn   = errors.New("invalid column ID")
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidPriority = errors.New("invalid priority")

	// Authorization errors
	ErrForbidden = errors.New("actor may not perform this action on the board")
)
