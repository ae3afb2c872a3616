package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

func positionsOf(t *testing.T, repo *Repository, boardID types.BoardID) map[types.ColumnID][]types.CardID {
	t.Helper()
	cards, err := repo.GetCardsByBoard(context.Background(), boardID)
	require.NoError(t, err)

	out := make(map[types.ColumnID][]types.CardID)
	for _, c := range cards {
		out[c.ColumnID] = append(out[c.ColumnID], c.ID)
		assert.Equal(t, len(out[c.ColumnID]), c.Position, "card %d position", c.ID)
	}
	return out
}

func TestCreateBoard_OwnerIsMember(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()

	board, err := repo.CreateBoard(ctx, "Roadmap", types.UserID(7))
	require.NoError(t, err)
	assert.True(t, board.ID.Valid())

	role, err := repo.GetMemberRole(ctx, board.ID, types.UserID(7))
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	got, err := repo.GetBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", got.Name)
	assert.False(t, got.Archived)
	assert.Equal(t, types.UserID(7), got.OwnerID)
}

func TestGetBoard_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)

	_, err := repo.GetBoard(context.Background(), types.BoardID(999))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMembers(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, _, _ := seedBoard(t, repo)

	require.NoError(t, repo.AddMember(ctx, board.ID, 2, models.RoleViewer))
	require.NoError(t, repo.AddMember(ctx, board.ID, 2, models.RoleMember))

	role, err := repo.GetMemberRole(ctx, board.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, role, "second add replaces the role")

	_, err = repo.GetMemberRole(ctx, board.ID, 3)
	assert.ErrorIs(t, err, models.ErrNotFound)

	members, err := repo.ListMembers(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, types.UserID(1), members[0].UserID)
	assert.Equal(t, models.RoleOwner, members[0].Role)
}

func TestSetArchived(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, _, _ := seedBoard(t, repo)

	require.NoError(t, repo.SetArchived(ctx, board.ID, true))
	got, err := repo.GetBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)

	assert.ErrorIs(t, repo.SetArchived(ctx, 404, true), models.ErrNotFound)
}

func TestCreate_AppendsAtNextPosition(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	_, columns, cards := seedBoard(t, repo, 3, 0)

	for i, col := range columns {
		assert.Equal(t, i+1, col.Position)
	}
	for i, card := range cards[0] {
		assert.Equal(t, i+1, card.Position)
	}
}

func TestCreateCard_KeepsAttributes(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	_, columns, _ := seedBoard(t, repo, 0)

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateCard(ctx, models.Card{
		ColumnID: columns[0].ID,
		Title:    "ship it",
		Position: 42,
		Assignee: "sam",
		DueDate:  &due,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Position, "input position is ignored")

	got, err := repo.GetCard(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ship it", got.Title)
	assert.Equal(t, "sam", got.Assignee)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
}

func TestCreateCard_UnknownColumn(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)

	_, err := repo.CreateCard(context.Background(), models.Card{ColumnID: 12, Title: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteColumn(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, columns, _ := seedBoard(t, repo, 0, 1, 0)

	t.Run("refuses a column with cards", func(t *testing.T) {
		err := repo.DeleteColumn(ctx, columns[1].ID)
		assert.ErrorIs(t, err, models.ErrColumnHasCards)
	})

	t.Run("renumbers the remaining columns", func(t *testing.T) {
		require.NoError(t, repo.DeleteColumn(ctx, columns[0].ID))

		got, err := repo.GetColumnsByBoard(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, columns[1].ID, got[0].ID)
		assert.Equal(t, 1, got[0].Position)
		assert.Equal(t, columns[2].ID, got[1].ID)
		assert.Equal(t, 2, got[1].Position)
	})

	t.Run("unknown column", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteColumn(ctx, 999), models.ErrNotFound)
	})
}

func TestDeleteCard_RenumbersSiblings(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, columns, cards := seedBoard(t, repo, 3)

	require.NoError(t, repo.DeleteCard(ctx, cards[0][0].ID))

	got := positionsOf(t, repo, board.ID)
	assert.Equal(t, []types.CardID{cards[0][1].ID, cards[0][2].ID}, got[columns[0].ID])
}

func TestBulkUpdateCardPositions_CrossColumn(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, columns, cards := seedBoard(t, repo, 3, 2)
	a, b := columns[0].ID, columns[1].ID
	moved := cards[0][1]

	// A's card at position 2 dropped into B at position 2
	updates := []models.CardUpdate{
		{ID: cards[0][2].ID, ColumnID: a, Position: 2},
		{ID: moved.ID, ColumnID: b, Position: 2},
		{ID: cards[1][1].ID, ColumnID: b, Position: 3},
	}
	n, err := repo.BulkUpdateCardPositions(ctx, board.ID, updates)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got := positionsOf(t, repo, board.ID)
	assert.Equal(t, []types.CardID{cards[0][0].ID, cards[0][2].ID}, got[a])
	assert.Equal(t, []types.CardID{cards[1][0].ID, moved.ID, cards[1][1].ID}, got[b])
}

func TestBulkUpdateCardPositions_RejectsWholeBatch(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, columns, cards := seedBoard(t, repo, 3)
	other, otherColumns, otherCards := seedBoard(t, repo, 1)
	col := columns[0].ID

	before := positionsOf(t, repo, board.ID)

	tests := []struct {
		name    string
		updates []models.CardUpdate
	}{
		{
			name: "missing card",
			updates: []models.CardUpdate{
				{ID: cards[0][2].ID, ColumnID: col, Position: 1},
				{ID: 9999, ColumnID: col, Position: 2},
			},
		},
		{
			name: "card on another board",
			updates: []models.CardUpdate{
				{ID: cards[0][2].ID, ColumnID: col, Position: 1},
				{ID: otherCards[0][0].ID, ColumnID: col, Position: 2},
			},
		},
		{
			name: "target column on another board",
			updates: []models.CardUpdate{
				{ID: cards[0][2].ID, ColumnID: otherColumns[0].ID, Position: 1},
			},
		},
		{
			name: "missing target column",
			updates: []models.CardUpdate{
				{ID: cards[0][2].ID, ColumnID: 777, Position: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := repo.BulkUpdateCardPositions(ctx, board.ID, tt.updates)
			assert.ErrorIs(t, err, models.ErrInconsistentBatch)
			assert.Zero(t, n)
			assert.Equal(t, before, positionsOf(t, repo, board.ID))
		})
	}

	// the other board is untouched as well
	assert.Len(t, positionsOf(t, repo, other.ID)[otherColumns[0].ID], 1)
}

func TestBulkUpdateColumnPositions(t *testing.T) {
	repo := NewRepository(setupTestDB(t), SQLite)
	ctx := context.Background()
	board, columns, _ := seedBoard(t, repo, 0, 0, 0)
	_, foreign, _ := seedBoard(t, repo, 0)

	t.Run("moves last column first", func(t *testing.T) {
		n, err := repo.BulkUpdateColumnPositions(ctx, board.ID, []models.ColumnUpdate{
			{ID: columns[2].ID, Position: 1},
			{ID: columns[0].ID, Position: 2},
			{ID: columns[1].ID, Position: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		got, err := repo.GetColumnsByBoard(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, columns[2].ID, got[0].ID)
		assert.Equal(t, columns[0].ID, got[1].ID)
		assert.Equal(t, columns[1].ID, got[2].ID)
	})

	t.Run("foreign column rejects the batch", func(t *testing.T) {
		_, err := repo.BulkUpdateColumnPositions(ctx, board.ID, []models.ColumnUpdate{
			{ID: columns[0].ID, Position: 1},
			{ID: foreign[0].ID, Position: 2},
		})
		assert.ErrorIs(t, err, models.ErrInconsistentBatch)

		got, err := repo.GetColumnsByBoard(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, columns[2].ID, got[0].ID, "order unchanged")
	})
}
