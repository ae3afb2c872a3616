package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// setupTestDB creates an in-memory SQLite database with the schema applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, runMigrations(ctx, db, SQLite))

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedBoard creates a board owned by user 1 with one column per entry of
// cardsPerColumn, each filled with that many cards
func seedBoard(t *testing.T, repo *Repository, cardsPerColumn ...int) (*models.Board, []*models.Column, [][]*models.Card) {
	t.Helper()
	ctx := context.Background()

	board, err := repo.CreateBoard(ctx, "Test Board", types.UserID(1))
	require.NoError(t, err)

	columns := make([]*models.Column, 0, len(cardsPerColumn))
	cards := make([][]*models.Card, 0, len(cardsPerColumn))
	for i, n := range cardsPerColumn {
		col, err := repo.CreateColumn(ctx, board.ID, string(rune('A'+i)))
		require.NoError(t, err)
		columns = append(columns, col)

		var colCards []*models.Card
		for j := 0; j < n; j++ {
			card, err := repo.CreateCard(ctx, models.Card{ColumnID: col.ID, Title: col.Name + string(rune('1'+j))})
			require.NoError(t, err)
			colCards = append(colCards, card)
		}
		cards = append(cards, colCards)
	}
	return board, columns, cards
}
