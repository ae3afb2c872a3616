package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// buildBoard creates a snapshot with one column per entry in sizes.
// Column ids are 10, 20, 30...; card ids are columnID+1, columnID+2...
func buildBoard(t *testing.T, sizes ...int) *snapshot.Snapshot {
	t.Helper()
	board := models.Board{ID: 1, Name: "Test Board"}
	var columns []models.Column
	var cards []models.Card
	for i, n := range sizes {
		colID := types.ColumnID((i + 1) * 10)
		columns = append(columns, models.Column{ID: colID, BoardID: 1, Name: "col", Position: i + 1})
		for p := 1; p <= n; p++ {
			cards = append(cards, models.Card{
				ID:       types.CardID(int(colID) + p),
				ColumnID: colID,
				Title:    "card",
				Position: p,
			})
		}
	}
	return snapshot.New(board, columns, cards)
}

func cardOrder(s *snapshot.Snapshot, col types.ColumnID) []types.CardID {
	cs, ok := s.Column(col)
	if !ok {
		return nil
	}
	ids := make([]types.CardID, len(cs.Cards))
	for i, c := range cs.Cards {
		ids[i] = c.ID
	}
	return ids
}

// ============================================================================
// SAME-COLUMN MOVES
// ============================================================================

func TestCalculateCardMove_MoveLastToFirst(t *testing.T) {
	s := buildBoard(t, 3) // a=11, b=12, c=13

	updates, err := CalculateCardMove(s, CardMove{CardID: 13, TargetColumnID: 10, Drop: AtPosition(1)})
	require.NoError(t, err)

	assert.Equal(t, []models.CardUpdate{
		{ID: 13, ColumnID: 10, Position: 1},
		{ID: 11, ColumnID: 10, Position: 2},
		{ID: 12, ColumnID: 10, Position: 3},
	}, updates)
}

func TestCalculateCardMove_SamePositionIsNoop(t *testing.T) {
	s := buildBoard(t, 4)

	for _, id := range []types.CardID{11, 12, 13, 14} {
		card, _ := s.Card(id)

		updates, err := CalculateCardMove(s, CardMove{CardID: id, TargetColumnID: 10, Drop: AtPosition(card.Position)})
		require.NoError(t, err)
		assert.NotNil(t, updates)
		assert.Empty(t, updates, "card %d", id)

		updates, err = CalculateCardMove(s, CardMove{CardID: id, TargetColumnID: 10, Drop: OverItem(int(id))})
		require.NoError(t, err)
		assert.Empty(t, updates, "card %d dropped on itself", id)
	}
}

func TestCalculateCardMove_DropOnOwnZoneWhenLastIsNoop(t *testing.T) {
	s := buildBoard(t, 3)

	updates, err := CalculateCardMove(s, CardMove{CardID: 13, TargetColumnID: 10, Drop: Zone()})
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestCalculateCardMove_OnlyChangedPositionsEmitted(t *testing.T) {
	s := buildBoard(t, 5) // 11..15

	// Move 12 to position 4: [11, 13, 14, 12, 15]; 11 and 15 keep their positions
	updates, err := CalculateCardMove(s, CardMove{CardID: 12, TargetColumnID: 10, Drop: AtPosition(4)})
	require.NoError(t, err)

	assert.Equal(t, []models.CardUpdate{
		{ID: 13, ColumnID: 10, Position: 2},
		{ID: 14, ColumnID: 10, Position: 3},
		{ID: 12, ColumnID: 10, Position: 4},
	}, updates)
}

func TestCalculateCardMove_ClampsInsertionIndex(t *testing.T) {
	s := buildBoard(t, 3)

	t.Run("past the end", func(t *testing.T) {
		updates, err := CalculateCardMove(s, CardMove{CardID: 11, TargetColumnID: 10, Drop: AtPosition(99)})
		require.NoError(t, err)
		after := snapshot.ApplyCardUpdates(s, updates)
		assert.Equal(t, []types.CardID{12, 13, 11}, cardOrder(after, 10))
	})

	t.Run("before the start", func(t *testing.T) {
		updates, err := CalculateCardMove(s, CardMove{CardID: 13, TargetColumnID: 10, Drop: AtPosition(-4)})
		require.NoError(t, err)
		after := snapshot.ApplyCardUpdates(s, updates)
		assert.Equal(t, []types.CardID{13, 11, 12}, cardOrder(after, 10))
	})
}

func TestCalculateCardMove_SameColumnAlwaysDense(t *testing.T) {
	s := buildBoard(t, 6)

	for _, card := range s.Columns[0].Cards {
		for position := -1; position <= 8; position++ {
			updates, err := CalculateCardMove(s, CardMove{CardID: card.ID, TargetColumnID: 10, Drop: AtPosition(position)})
			require.NoError(t, err)

			after := snapshot.ApplyCardUpdates(s, updates)
			require.NoError(t, snapshot.CheckDense(after), "card %d to %d", card.ID, position)
			assert.Len(t, after.Columns[0].Cards, 6)
		}
	}
}

// ============================================================================
// DROP-ON-ITEM TIE BREAK
// ============================================================================

func TestCalculateCardMove_DropOnItemTakesItsPosition(t *testing.T) {
	s := buildBoard(t, 3, 3) // column 10: 11,12,13  column 20: 21,22,23

	// Drop 12 onto 22: 12 takes 22's position (2); 22 and 23 shift by +1
	updates, err := CalculateCardMove(s, CardMove{CardID: 12, TargetColumnID: 20, Drop: OverItem(22)})
	require.NoError(t, err)

	after := snapshot.ApplyCardUpdates(s, updates)
	moved, _ := after.Card(12)
	b, _ := after.Card(22)
	c, _ := after.Card(23)
	assert.Equal(t, 2, moved.Position)
	assert.Equal(t, types.ColumnID(20), moved.ColumnID)
	assert.Equal(t, 3, b.Position)
	assert.Equal(t, 4, c.Position)
	require.NoError(t, snapshot.CheckDense(after))
}

func TestCalculateCardMove_DropOnItemSameColumnUsesPreMoveRank(t *testing.T) {
	s := buildBoard(t, 3)

	// Dragging the first card onto the last card lands it at the last card's rank
	updates, err := CalculateCardMove(s, CardMove{CardID: 11, TargetColumnID: 10, Drop: OverItem(13)})
	require.NoError(t, err)
	after := snapshot.ApplyCardUpdates(s, updates)
	assert.Equal(t, []types.CardID{12, 13, 11}, cardOrder(after, 10))

	// And the last onto the first lands before it
	updates, err = CalculateCardMove(s, CardMove{CardID: 13, TargetColumnID: 10, Drop: OverItem(11)})
	require.NoError(t, err)
	after = snapshot.ApplyCardUpdates(s, updates)
	assert.Equal(t, []types.CardID{13, 11, 12}, cardOrder(after, 10))
}

// ============================================================================
// CROSS-COLUMN MOVES
// ============================================================================

func TestCalculateCardMove_CrossColumnExample(t *testing.T) {
	s := buildBoard(t, 3, 2) // A: 11,12,13  B: 21,22

	updates, err := CalculateCardMove(s, CardMove{CardID: 12, TargetColumnID: 20, Drop: AtPosition(2)})
	require.NoError(t, err)

	assert.Equal(t, []models.CardUpdate{
		{ID: 13, ColumnID: 10, Position: 2},
		{ID: 12, ColumnID: 20, Position: 2},
		{ID: 22, ColumnID: 20, Position: 3},
	}, updates)

	after := snapshot.ApplyCardUpdates(s, updates)
	assert.Equal(t, []types.CardID{11, 13}, cardOrder(after, 10))
	assert.Equal(t, []types.CardID{21, 12, 22}, cardOrder(after, 20))
	require.NoError(t, snapshot.CheckDense(after))
}

func TestCalculateCardMove_CrossColumnAlwaysEmitsMovedCard(t *testing.T) {
	s := buildBoard(t, 2, 2)

	// 12 sits at position 2 and lands at position 2 of column 20
	updates, err := CalculateCardMove(s, CardMove{CardID: 12, TargetColumnID: 20, Drop: AtPosition(2)})
	require.NoError(t, err)

	assert.Contains(t, updates, models.CardUpdate{ID: 12, ColumnID: 20, Position: 2})
}

func TestCalculateCardMove_CrossColumnMembership(t *testing.T) {
	s := buildBoard(t, 4, 3, 0)

	for _, card := range s.Columns[0].Cards {
		for _, target := range []types.ColumnID{20, 30} {
			updates, err := CalculateCardMove(s, CardMove{CardID: card.ID, TargetColumnID: target, Drop: Zone()})
			require.NoError(t, err)

			after := snapshot.ApplyCardUpdates(s, updates)
			assert.NotContains(t, cardOrder(after, 10), card.ID)

			count := 0
			for _, id := range cardOrder(after, target) {
				if id == card.ID {
					count++
				}
			}
			assert.Equal(t, 1, count)
			require.NoError(t, snapshot.CheckDense(after))
		}
	}
}

func TestCalculateCardMove_EmptyColumnYieldsPositionOne(t *testing.T) {
	s := buildBoard(t, 3, 0)

	for _, drop := range []Drop{Zone(), AtPosition(1), AtPosition(7)} {
		updates, err := CalculateCardMove(s, CardMove{CardID: 12, TargetColumnID: 20, Drop: drop})
		require.NoError(t, err)
		assert.Contains(t, updates, models.CardUpdate{ID: 12, ColumnID: 20, Position: 1}, drop.Kind.String())
	}
}

func TestCalculateCardMove_ZoneAppends(t *testing.T) {
	s := buildBoard(t, 1, 3)

	updates, err := CalculateCardMove(s, CardMove{CardID: 11, TargetColumnID: 20, Drop: Zone()})
	require.NoError(t, err)

	assert.Equal(t, []models.CardUpdate{{ID: 11, ColumnID: 20, Position: 4}}, updates)
}

// ============================================================================
// VALIDATION FAILURES
// ============================================================================

func TestCalculateCardMove_ValidationFailures(t *testing.T) {
	s := buildBoard(t, 2, 2)

	tests := []struct {
		name  string
		move  CardMove
		cause error
	}{
		{"unknown card", CardMove{CardID: 999, TargetColumnID: 10, Drop: Zone()}, ErrUnknownCard},
		{"column on another board", CardMove{CardID: 11, TargetColumnID: 77, Drop: Zone()}, ErrUnknownColumn},
		{"drop target outside container", CardMove{CardID: 11, TargetColumnID: 20, Drop: OverItem(12)}, ErrUnknownDropTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates, err := CalculateCardMove(s, tt.move)
			assert.Nil(t, updates)
			assert.ErrorIs(t, err, ErrInvalidMove)
			assert.ErrorIs(t, err, tt.cause)
		})
	}

	_, err := CalculateCardMove(nil, CardMove{CardID: 11})
	assert.ErrorIs(t, err, ErrInvalidMove)
}

// ============================================================================
// COLUMN MOVES
// ============================================================================

func TestCalculateColumnMove(t *testing.T) {
	s := buildBoard(t, 1, 1, 1, 1) // 10, 20, 30, 40

	t.Run("move last to first", func(t *testing.T) {
		updates, err := CalculateColumnMove(s, ColumnMove{ColumnID: 40, Drop: AtPosition(1)})
		require.NoError(t, err)
		assert.Equal(t, []models.ColumnUpdate{
			{ID: 40, Position: 1},
			{ID: 10, Position: 2},
			{ID: 20, Position: 3},
			{ID: 30, Position: 4},
		}, updates)
	})

	t.Run("drop onto column", func(t *testing.T) {
		updates, err := CalculateColumnMove(s, ColumnMove{ColumnID: 30, Drop: OverItem(20)})
		require.NoError(t, err)
		assert.Equal(t, []models.ColumnUpdate{
			{ID: 30, Position: 2},
			{ID: 20, Position: 3},
		}, updates)
	})

	t.Run("no-op", func(t *testing.T) {
		updates, err := CalculateColumnMove(s, ColumnMove{ColumnID: 20, Drop: AtPosition(2)})
		require.NoError(t, err)
		assert.Empty(t, updates)
	})

	t.Run("unknown column", func(t *testing.T) {
		updates, err := CalculateColumnMove(s, ColumnMove{ColumnID: 99, Drop: Zone()})
		assert.Nil(t, updates)
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("always dense", func(t *testing.T) {
		for _, cs := range s.Columns {
			for position := 0; position <= 5; position++ {
				updates, err := CalculateColumnMove(s, ColumnMove{ColumnID: cs.ID, Drop: AtPosition(position)})
				require.NoError(t, err)
				require.NoError(t, snapshot.CheckDense(snapshot.ApplyColumnUpdates(s, updates)))
			}
		}
	})
}

func TestCalculate_DoesNotMutateSnapshot(t *testing.T) {
	s := buildBoard(t, 3, 2)
	before := cardOrder(s, 10)

	_, err := CalculateCardMove(s, CardMove{CardID: 11, TargetColumnID: 20, Drop: AtPosition(1)})
	require.NoError(t, err)
	_, err = CalculateColumnMove(s, ColumnMove{ColumnID: 20, Drop: AtPosition(1)})
	require.NoError(t, err)

	assert.Equal(t, before, cardOrder(s, 10))
	assert.Equal(t, types.ColumnID(10), s.Columns[0].ID)
	require.NoError(t, snapshot.CheckDense(s))
}
