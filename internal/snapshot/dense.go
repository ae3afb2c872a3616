package snapshot

import (
	"errors"
	"fmt"
)

// ErrNotDense indicates positions in a container are not exactly 1..N
var ErrNotDense = errors.New("positions are not dense")

// CheckDense verifies that the board's columns and every column's cards carry
// the positions 1..N in order, and that every card points at the column holding it.
func CheckDense(s *Snapshot) error {
	for i, cs := range s.Columns {
		if cs.Position != i+1 {
			return fmt.Errorf("%w: board %d column %d at rank %d has position %d",
				ErrNotDense, s.Board.ID, cs.ID, i+1, cs.Position)
		}
		for j, card := range cs.Cards {
			if card.Position != j+1 {
				return fmt.Errorf("%w: column %d card %d at rank %d has position %d",
					ErrNotDense, cs.ID, card.ID, j+1, card.Position)
			}
			if card.ColumnID != cs.ID {
				return fmt.Errorf("%w: card %d held by column %d claims column %d",
					ErrNotDense, card.ID, cs.ID, card.ColumnID)
			}
		}
	}
	return nil
}
