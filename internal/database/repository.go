package database

import (
	"context"
	"database/sql"
)

// Repository composes the per-entity repositories over one connection pool
type Repository struct {
	*BoardRepo
	*ColumnRepo
	*CardRepo
	db *sql.DB
}

// NewRepository creates a new repository for the given dialect
func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		BoardRepo:  NewBoardRepo(db, dialect),
		ColumnRepo: NewColumnRepo(db, dialect),
		CardRepo:   NewCardRepo(db, dialect),
		db:         db,
	}
}

// Ping checks the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
