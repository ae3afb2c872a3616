package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/thenoetrevino/pasoboard/internal/database"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Owner is the user who owns every seeded board
const Owner types.UserID = 1

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *database.Repository {
	t.Helper()

	db, dialect, err := database.InitDB(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return database.NewRepository(db, dialect)
}

// SeededBoard is a board created by SeedBoard
type SeededBoard struct {
	Board   *models.Board
	Columns []*models.Column
	Cards   [][]*models.Card // Cards[i] are the cards of Columns[i] in position order
}

// SeedBoard creates a board owned by Owner with one column per entry of
// cardsPerColumn. Column i is named "Col<i+1>"; its cards are "C<i+1>-<j+1>".
func SeedBoard(t *testing.T, repo database.DataStore, cardsPerColumn ...int) SeededBoard {
	t.Helper()
	ctx := context.Background()

	b, err := repo.CreateBoard(ctx, "Seeded", Owner)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	seeded := SeededBoard{Board: b}
	for i, n := range cardsPerColumn {
		col, err := repo.CreateColumn(ctx, b.ID, fmt.Sprintf("Col%d", i+1))
		if err != nil {
			t.Fatalf("Failed to create column: %v", err)
		}
		seeded.Columns = append(seeded.Columns, col)

		cards := make([]*models.Card, 0, n)
		for j := 0; j < n; j++ {
			card, err := repo.CreateCard(ctx, models.Card{
				ColumnID: col.ID,
				Title:    fmt.Sprintf("C%d-%d", i+1, j+1),
			})
			if err != nil {
				t.Fatalf("Failed to create card: %v", err)
			}
			cards = append(cards, card)
		}
		seeded.Cards = append(seeded.Cards, cards)
	}
	return seeded
}

// AddMember grants userID role on a seeded board
func AddMember(t *testing.T, repo database.DataStore, boardID types.BoardID, userID types.UserID, role models.Role) {
	t.Helper()
	if err := repo.AddMember(context.Background(), boardID, userID, role); err != nil {
		t.Fatalf("Failed to add member: %v", err)
	}
}
