package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// runMigrations creates the schema. Statements are idempotent.
func runMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id {{id}},
			name TEXT NOT NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			owner_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS board_members (
			board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			PRIMARY KEY (board_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS columns (
			id {{id}},
			board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		// No unique (column_id, position): a bulk move passes through
		// duplicate positions before the batch completes
		`CREATE TABLE IF NOT EXISTS cards (
			id {{id}},
			column_id INTEGER NOT NULL REFERENCES columns(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			position INTEGER NOT NULL,
			assignee TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMP NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_board ON columns(board_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_column ON cards(column_id, position)`,
	}

	for i, stmt := range statements {
		stmt = strings.ReplaceAll(stmt, "{{id}}", dialect.autoID())
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
