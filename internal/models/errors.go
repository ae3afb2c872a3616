package models

import "errors"

// Domain-specific errors shared by the store and the services
var (
	// ErrNotFound indicates the referenced board, column or card does not exist
	ErrNotFound = errors.New("not found")

	// ErrColumnHasCards indicates an attempt to delete a column that still holds cards
	ErrColumnHasCards = errors.New("cannot delete column with cards")

	// ErrBoardArchived indicates a structural change on an archived board
	ErrBoardArchived = errors.New("board is archived")

	// ErrInconsistentBatch indicates a bulk update referencing missing rows
	// or rows that belong to another board
	ErrInconsistentBatch = errors.New("batch references unknown or foreign ids")
)
