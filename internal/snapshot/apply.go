package snapshot

import (
	"github.com/thenoetrevino/pasoboard/internal/models"
)

// ApplyCardUpdates returns a new Snapshot with the card updates applied.
//
// s is never modified. Columns no update touches keep their *ColumnState
// (and therefore their Cards slice); touched columns are copied before
// being changed and re-sorted by position afterwards. Updates naming an
// unknown card or column are skipped. Applying the same list twice yields
// the same columns and cards.
func ApplyCardUpdates(s *Snapshot, updates []models.CardUpdate) *Snapshot {
	if s == nil || len(updates) == 0 {
		return s
	}

	next := successor(s)
	touched := make(map[int]bool)

	// own returns a private copy of column i that is safe to modify
	own := func(i int) *ColumnState {
		if !touched[i] {
			prev := next.Columns[i]
			cards := make([]models.Card, len(prev.Cards))
			copy(cards, prev.Cards)
			next.Columns[i] = &ColumnState{Column: prev.Column, Cards: cards}
			touched[i] = true
		}
		return next.Columns[i]
	}

	for _, u := range updates {
		target := next.ColumnIndex(u.ColumnID)
		if target < 0 {
			continue
		}
		ci, ki := next.LocateCard(u.ID)
		if ci < 0 {
			continue
		}

		src := own(ci)
		card := src.Cards[ki]
		src.Cards = append(src.Cards[:ki], src.Cards[ki+1:]...)

		card.ColumnID = u.ColumnID
		card.Position = u.Position

		dst := own(target)
		dst.Cards = append(dst.Cards, card)
	}

	for i := range touched {
		sortCards(next.Columns[i].Cards)
	}

	return next
}

// ApplyColumnUpdates returns a new Snapshot with the column positions applied
// and the columns re-sorted. Cards slices are shared with s.
func ApplyColumnUpdates(s *Snapshot, updates []models.ColumnUpdate) *Snapshot {
	if s == nil || len(updates) == 0 {
		return s
	}

	next := successor(s)
	touched := make(map[int]bool)

	for _, u := range updates {
		i := next.ColumnIndex(u.ID)
		if i < 0 {
			continue
		}
		if !touched[i] {
			prev := next.Columns[i]
			next.Columns[i] = &ColumnState{Column: prev.Column, Cards: prev.Cards}
			touched[i] = true
		}
		next.Columns[i].Position = u.Position
	}

	sortColumns(next.Columns)

	return next
}

// successor returns a shallow copy of s with a bumped version and its own Columns slice
func successor(s *Snapshot) *Snapshot {
	columns := make([]*ColumnState, len(s.Columns))
	copy(columns, s.Columns)
	return &Snapshot{
		Version: s.Version + 1,
		Board:   s.Board,
		Columns: columns,
	}
}
