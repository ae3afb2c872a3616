package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/database"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/testutil"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

const viewer types.UserID = 3

func setup(t *testing.T, cardsPerColumn ...int) (Service, *database.Repository, *testutil.RecordingPublisher, testutil.SeededBoard) {
	t.Helper()
	repo := testutil.SetupTestDB(t)
	seeded := testutil.SeedBoard(t, repo, cardsPerColumn...)
	testutil.AddMember(t, repo, seeded.Board.ID, viewer, models.RoleViewer)

	pub := &testutil.RecordingPublisher{}
	svc := NewService(repo, board.NewService(repo, nil), pub)
	return svc, repo, pub, seeded
}

func cardOrder(t *testing.T, repo *database.Repository, boardID types.BoardID) map[types.ColumnID][]types.CardID {
	t.Helper()
	cards, err := repo.GetCardsByBoard(context.Background(), boardID)
	require.NoError(t, err)
	out := make(map[types.ColumnID][]types.CardID)
	for _, c := range cards {
		out[c.ColumnID] = append(out[c.ColumnID], c.ID)
	}
	return out
}

func TestReorderCards_AppliesAndPublishes(t *testing.T) {
	svc, repo, pub, seeded := setup(t, 3)
	col := seeded.Columns[0].ID
	a, b, c := seeded.Cards[0][0].ID, seeded.Cards[0][1].ID, seeded.Cards[0][2].ID

	n, err := svc.ReorderCards(context.Background(), testutil.Owner, seeded.Board.ID, []models.CardUpdate{
		{ID: c, ColumnID: col, Position: 1},
		{ID: a, ColumnID: col, Position: 2},
		{ID: b, ColumnID: col, Position: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []types.CardID{c, a, b}, cardOrder(t, repo, seeded.Board.ID)[col])

	published := pub.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventBoardChanged, published[0].Type)
	assert.Equal(t, events.ChangeCards, published[0].Kind)
	assert.Equal(t, 3, published[0].Count)
	assert.Equal(t, testutil.Owner, published[0].ActorID)
}

func TestReorderCards_Rejections(t *testing.T) {
	svc, repo, pub, seeded := setup(t, 2)
	ctx := context.Background()
	col := seeded.Columns[0].ID
	first := seeded.Cards[0][0].ID
	before := cardOrder(t, repo, seeded.Board.ID)

	tests := []struct {
		name    string
		actor   types.UserID
		boardID types.BoardID
		updates []models.CardUpdate
		wantErr error
	}{
		{"empty batch", testutil.Owner, seeded.Board.ID, nil, ErrEmptyBatch},
		{"position below one", testutil.Owner, seeded.Board.ID,
			[]models.CardUpdate{{ID: first, ColumnID: col, Position: 0}}, ErrInvalidPosition},
		{"duplicate id", testutil.Owner, seeded.Board.ID,
			[]models.CardUpdate{{ID: first, ColumnID: col, Position: 1}, {ID: first, ColumnID: col, Position: 2}}, ErrDuplicateID},
		{"viewer", viewer, seeded.Board.ID,
			[]models.CardUpdate{{ID: first, ColumnID: col, Position: 2}}, board.ErrForbidden},
		{"unknown board", testutil.Owner, 999,
			[]models.CardUpdate{{ID: first, ColumnID: col, Position: 2}}, models.ErrNotFound},
		{"unknown card", testutil.Owner, seeded.Board.ID,
			[]models.CardUpdate{{ID: first, ColumnID: col, Position: 2}, {ID: 5000, ColumnID: col, Position: 1}}, models.ErrInconsistentBatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReorderCards(ctx, tt.actor, tt.boardID, tt.updates)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, before, cardOrder(t, repo, seeded.Board.ID))
	assert.Empty(t, pub.Events())
}

func TestReorder_ArchivedBoard(t *testing.T) {
	svc, repo, _, seeded := setup(t, 1, 0)
	ctx := context.Background()
	require.NoError(t, repo.SetArchived(ctx, seeded.Board.ID, true))

	_, err := svc.ReorderColumns(ctx, testutil.Owner, seeded.Board.ID, []models.ColumnUpdate{
		{ID: seeded.Columns[1].ID, Position: 1},
		{ID: seeded.Columns[0].ID, Position: 2},
	})
	assert.ErrorIs(t, err, models.ErrBoardArchived)
}

func TestReorderColumns(t *testing.T) {
	svc, repo, pub, seeded := setup(t, 0, 0)
	ctx := context.Background()

	n, err := svc.ReorderColumns(ctx, testutil.Owner, seeded.Board.ID, []models.ColumnUpdate{
		{ID: seeded.Columns[1].ID, Position: 1},
		{ID: seeded.Columns[0].ID, Position: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	columns, err := repo.GetColumnsByBoard(ctx, seeded.Board.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Columns[1].ID, columns[0].ID)

	require.Len(t, pub.Events(), 1)
	assert.Equal(t, events.ChangeColumns, pub.Events()[0].Kind)
}

func TestReorder_PublishFailureDoesNotFailWrite(t *testing.T) {
	svc, _, pub, seeded := setup(t, 0, 0)
	pub.Err = errors.New("hub down")

	n, err := svc.ReorderColumns(context.Background(), testutil.Owner, seeded.Board.ID, []models.ColumnUpdate{
		{ID: seeded.Columns[1].ID, Position: 1},
		{ID: seeded.Columns[0].ID, Position: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
