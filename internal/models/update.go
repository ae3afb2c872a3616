package models

import "github.com/thenoetrevino/pasoboard/internal/types"

// CardUpdate assigns a card to a column at a position.
// The JSON shape is the wire contract of the bulk card reorder endpoint.
type CardUpdate struct {
	ID       types.CardID   `json:"id"`
	ColumnID types.ColumnID `json:"columnId"`
	Position int            `json:"position"`
}

// ColumnUpdate assigns a column a position within its board
type ColumnUpdate struct {
	ID       types.ColumnID `json:"id"`
	Position int            `json:"position"`
}

// NextPosition returns the position a newly created card or column takes
// in a container that currently holds count items.
func NextPosition(count int) int {
	return count + 1
}

// Renumber assigns the ids the dense positions 1..N in the given order
func Renumber[T ~int](ids []T) map[T]int {
	positions := make(map[T]int, len(ids))
	for i, id := range ids {
		positions[id] = i + 1
	}
	return positions
}
