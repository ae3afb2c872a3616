package snapshot

import (
	"sort"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ColumnState is a column together with its cards ordered by position.
// A published ColumnState must not be modified.
type ColumnState struct {
	models.Column
	Cards []models.Card
}

// Snapshot is the complete state of a board at one point in time
type Snapshot struct {
	Version uint64
	Board   models.Board
	Columns []*ColumnState
}

// New builds a Snapshot from flat rows. Columns and cards are ordered by
// position, ties broken by id. Cards whose column is not on the board are dropped.
func New(board models.Board, columns []models.Column, cards []models.Card) *Snapshot {
	s := &Snapshot{
		Board:   board,
		Columns: make([]*ColumnState, 0, len(columns)),
	}

	byID := make(map[types.ColumnID]*ColumnState, len(columns))
	for _, col := range columns {
		cs := &ColumnState{Column: col, Cards: []models.Card{}}
		byID[col.ID] = cs
		s.Columns = append(s.Columns, cs)
	}

	for _, card := range cards {
		if cs, ok := byID[card.ColumnID]; ok {
			cs.Cards = append(cs.Cards, card)
		}
	}

	for _, cs := range s.Columns {
		sortCards(cs.Cards)
	}
	sortColumns(s.Columns)

	return s
}

// ColumnIndex returns the index of the column in s.Columns, or -1
func (s *Snapshot) ColumnIndex(id types.ColumnID) int {
	for i, cs := range s.Columns {
		if cs.ID == id {
			return i
		}
	}
	return -1
}

// Column returns the column with the given id
func (s *Snapshot) Column(id types.ColumnID) (*ColumnState, bool) {
	i := s.ColumnIndex(id)
	if i < 0 {
		return nil, false
	}
	return s.Columns[i], true
}

// LocateCard returns the column index and card index of the card, or -1, -1
func (s *Snapshot) LocateCard(id types.CardID) (int, int) {
	for ci, cs := range s.Columns {
		for ki, card := range cs.Cards {
			if card.ID == id {
				return ci, ki
			}
		}
	}
	return -1, -1
}

// Card returns the card with the given id
func (s *Snapshot) Card(id types.CardID) (models.Card, bool) {
	ci, ki := s.LocateCard(id)
	if ci < 0 {
		return models.Card{}, false
	}
	return s.Columns[ci].Cards[ki], true
}

// CardCount returns the number of cards on the board
func (s *Snapshot) CardCount() int {
	n := 0
	for _, cs := range s.Columns {
		n += len(cs.Cards)
	}
	return n
}

func sortCards(cards []models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Position != cards[j].Position {
			return cards[i].Position < cards[j].Position
		}
		return cards[i].ID < cards[j].ID
	})
}

func sortColumns(columns []*ColumnState) {
	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i].Position != columns[j].Position {
			return columns[i].Position < columns[j].Position
		}
		return columns[i].ID < columns[j].ID
	})
}
