package reorder

import (
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// CardMove describes a card drag: which card, into which column, where
type CardMove struct {
	CardID         types.CardID
	TargetColumnID types.ColumnID
	Drop           Drop
}

// ColumnMove describes a column drag within its board
type ColumnMove struct {
	ColumnID types.ColumnID
	Drop     Drop
}

// CalculateCardMove returns the card updates needed to realise move against s.
//
// Only cards whose position or column changes are emitted; the moved card is
// always emitted on a cross-column move. Dropping a card where it already is
// yields an empty, non-nil list. Unknown ids fail with ErrInvalidMove.
func CalculateCardMove(s *snapshot.Snapshot, move CardMove) ([]models.CardUpdate, error) {
	if s == nil {
		return nil, invalid(ErrNilSnapshot, "card %d", move.CardID)
	}

	srcIdx, cardIdx := s.LocateCard(move.CardID)
	if srcIdx < 0 {
		return nil, invalid(ErrUnknownCard, "card %d", move.CardID)
	}
	dstIdx := s.ColumnIndex(move.TargetColumnID)
	if dstIdx < 0 {
		return nil, invalid(ErrUnknownColumn, "column %d is not on board %d", move.TargetColumnID, s.Board.ID)
	}

	src := s.Columns[srcIdx]
	dst := s.Columns[dstIdx]
	moved := src.Cards[cardIdx]

	// Resolve the insertion point against the pre-move target sequence
	position, err := cardDropPosition(dst.Cards, move.Drop)
	if err != nil {
		return nil, err
	}

	if srcIdx == dstIdx {
		order := cardIDs(src.Cards)
		order = removeID(order, moved.ID)
		order = insertID(order, clampIndex(position-1, len(order)), moved.ID)
		return cardDeltas(src.Cards, order, src.ID, 0), nil
	}

	srcOrder := removeID(cardIDs(src.Cards), moved.ID)
	dstOrder := cardIDs(dst.Cards)
	dstOrder = insertID(dstOrder, clampIndex(position-1, len(dstOrder)), moved.ID)

	updates := cardDeltas(src.Cards, srcOrder, src.ID, 0)
	withMoved := append(append([]models.Card(nil), dst.Cards...), moved)
	updates = append(updates, cardDeltas(withMoved, dstOrder, dst.ID, moved.ID)...)
	return updates, nil
}

// CalculateColumnMove returns the column updates needed to realise move against s
func CalculateColumnMove(s *snapshot.Snapshot, move ColumnMove) ([]models.ColumnUpdate, error) {
	if s == nil {
		return nil, invalid(ErrNilSnapshot, "column %d", move.ColumnID)
	}
	if s.ColumnIndex(move.ColumnID) < 0 {
		return nil, invalid(ErrUnknownColumn, "column %d is not on board %d", move.ColumnID, s.Board.ID)
	}

	ids := make([]int, len(s.Columns))
	for i, cs := range s.Columns {
		ids[i] = int(cs.ID)
	}

	position, err := dropPosition(ids, move.Drop)
	if err != nil {
		return nil, err
	}

	order := removeID(ids, int(move.ColumnID))
	order = insertID(order, clampIndex(position-1, len(order)), int(move.ColumnID))

	current := make(map[int]int, len(s.Columns))
	for _, cs := range s.Columns {
		current[int(cs.ID)] = cs.Position
	}

	updates := []models.ColumnUpdate{}
	for i, id := range order {
		if current[id] != i+1 {
			updates = append(updates, models.ColumnUpdate{ID: types.ColumnID(id), Position: i + 1})
		}
	}
	return updates, nil
}

func cardDropPosition(cards []models.Card, drop Drop) (int, error) {
	return dropPosition(cardIDs(cards), drop)
}

// dropPosition resolves a drop to a 1-based insertion position in the
// pre-move sequence ids. The caller clamps the result.
func dropPosition(ids []int, drop Drop) (int, error) {
	switch drop.Kind {
	case DropOverItem:
		for i, id := range ids {
			if id == drop.ItemID {
				return i + 1, nil
			}
		}
		return 0, invalid(ErrUnknownDropTarget, "item %d", drop.ItemID)
	case DropAtPosition:
		return drop.Position, nil
	default:
		return len(ids) + 1, nil
	}
}

// cardDeltas renumbers order 1..N and emits updates for cards whose position
// or column differs from before. always names a card emitted unconditionally.
func cardDeltas(before []models.Card, order []int, columnID types.ColumnID, always types.CardID) []models.CardUpdate {
	prev := make(map[int]models.Card, len(before))
	for _, card := range before {
		prev[int(card.ID)] = card
	}

	updates := []models.CardUpdate{}
	for i, id := range order {
		card := prev[id]
		position := i + 1
		if types.CardID(id) == always || card.Position != position || card.ColumnID != columnID {
			updates = append(updates, models.CardUpdate{
				ID:       types.CardID(id),
				ColumnID: columnID,
				Position: position,
			})
		}
	}
	return updates
}

func cardIDs(cards []models.Card) []int {
	ids := make([]int, len(cards))
	for i, card := range cards {
		ids[i] = int(card.ID)
	}
	return ids
}

func removeID[T ~int](ids []int, id T) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != int(id) {
			out = append(out, v)
		}
	}
	return out
}

func insertID[T ~int](ids []int, at int, id T) []int {
	out := make([]int, 0, len(ids)+1)
	out = append(out, ids[:at]...)
	out = append(out, int(id))
	out = append(out, ids[at:]...)
	return out
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
