package database

import (
	"context"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// BoardReader defines read operations for boards and membership
type BoardReader interface {
	GetBoard(ctx context.Context, id types.BoardID) (*models.Board, error)
	GetMemberRole(ctx context.Context, boardID types.BoardID, userID types.UserID) (models.Role, error)
	ListMembers(ctx context.Context, boardID types.BoardID) ([]models.Member, error)
}

// BoardWriter defines write operations for boards and membership
type BoardWriter interface {
	CreateBoard(ctx context.Context, name string, ownerID types.UserID) (*models.Board, error)
	SetArchived(ctx context.Context, id types.BoardID, archived bool) error
	AddMember(ctx context.Context, boardID types.BoardID, userID types.UserID, role models.Role) error
}

// ColumnReader defines read operations for columns
type ColumnReader interface {
	GetColumn(ctx context.Context, id types.ColumnID) (*models.Column, error)
	GetColumnsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Column, error)
}

// ColumnWriter defines write operations for columns
type ColumnWriter interface {
	CreateColumn(ctx context.Context, boardID types.BoardID, name string) (*models.Column, error)
	DeleteColumn(ctx context.Context, id types.ColumnID) error
	BulkUpdateColumnPositions(ctx context.Context, boardID types.BoardID, updates []models.ColumnUpdate) (int, error)
}

// CardReader defines read operations for cards
type CardReader interface {
	GetCard(ctx context.Context, id types.CardID) (*models.Card, error)
	GetCardsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error)
}

// CardWriter defines write operations for cards
type CardWriter interface {
	CreateCard(ctx context.Context, card models.Card) (*models.Card, error)
	DeleteCard(ctx context.Context, id types.CardID) error
	BulkUpdateCardPositions(ctx context.Context, boardID types.BoardID, updates []models.CardUpdate) (int, error)
}

// DataStore is everything the services need from persistence
type DataStore interface {
	BoardReader
	BoardWriter
	ColumnReader
	ColumnWriter
	CardReader
	CardWriter
	Ping(ctx context.Context) error
}

// Compile-time check
var _ DataStore = (*Repository)(nil)
