package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
)

func getTestDatabaseURL(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("PASOBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PASOBOARD_TEST_DATABASE_URL not set")
	}
	return url
}

func TestPostgres_BulkReorder(t *testing.T) {
	url := getTestDatabaseURL(t)
	ctx := context.Background()

	db, dialect, err := InitDB(ctx, "postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.Equal(t, Postgres, dialect)

	repo := NewRepository(db, dialect)
	board, columns, cards := seedBoard(t, repo, 3)
	col := columns[0].ID

	_, err = repo.BulkUpdateCardPositions(ctx, board.ID, []models.CardUpdate{
		{ID: cards[0][2].ID, ColumnID: col, Position: 1},
		{ID: cards[0][0].ID, ColumnID: col, Position: 2},
		{ID: cards[0][1].ID, ColumnID: col, Position: 3},
	})
	require.NoError(t, err)

	got, err := repo.GetCardsByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, cards[0][2].ID, got[0].ID)

	_, err = repo.BulkUpdateCardPositions(ctx, board.ID, []models.CardUpdate{
		{ID: -1, ColumnID: col, Position: 1},
	})
	assert.ErrorIs(t, err, models.ErrInconsistentBatch)
}

func TestInitDB_SQLiteFile(t *testing.T) {
	ctx := context.Background()
	db, dialect, err := InitDB(ctx, "sqlite", t.TempDir()+"/board.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, SQLite, dialect)
	repo := NewRepository(db, dialect)
	require.NoError(t, repo.Ping(ctx))

	_, err = repo.CreateBoard(ctx, "file backed", 1)
	assert.NoError(t, err)
}
