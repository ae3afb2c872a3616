package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ColumnRepo handles column persistence and column ordering
type ColumnRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewColumnRepo creates a new column repository
func NewColumnRepo(db *sql.DB, dialect Dialect) *ColumnRepo {
	return &ColumnRepo{db: db, dialect: dialect}
}

// CreateColumn appends a column at position count+1 of its board
func (r *ColumnRepo) CreateColumn(ctx context.Context, boardID types.BoardID, name string) (*models.Column, error) {
	column := &models.Column{BoardID: boardID, Name: name}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		n, err := count(ctx, tx, r.dialect, `SELECT COUNT(*) FROM columns WHERE board_id = ?`, boardID)
		if err != nil {
			return fmt.Errorf("failed to count columns: %w", err)
		}
		column.Position = models.NextPosition(n)

		err = tx.QueryRowContext(ctx,
			r.dialect.rebind(`INSERT INTO columns (board_id, name, position) VALUES (?, ?, ?) RETURNING id`),
			boardID, name, column.Position,
		).Scan(&column.ID)
		if err != nil {
			return fmt.Errorf("failed to insert column: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumn returns the column with id, or models.ErrNotFound
func (r *ColumnRepo) GetColumn(ctx context.Context, id types.ColumnID) (*models.Column, error) {
	column := &models.Column{}
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT id, board_id, name, position FROM columns WHERE id = ?`), id,
	).Scan(&column.ID, &column.BoardID, &column.Name, &column.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("column %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column %d: %w", id, err)
	}
	return column, nil
}

// GetColumnsByBoard returns the board's columns ordered by position, then id
func (r *ColumnRepo) GetColumnsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`
		SELECT id, board_id, name, position FROM columns
		WHERE board_id = ? ORDER BY position, id`), boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slogRowsClose(err)
		}
	}()

	columns := make([]*models.Column, 0)
	for rows.Next() {
		c := &models.Column{}
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// DeleteColumn removes an empty column and renumbers the remaining columns
// of its board densely. A column that still holds cards is refused with
// models.ErrColumnHasCards.
func (r *ColumnRepo) DeleteColumn(ctx context.Context, id types.ColumnID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID types.BoardID
		err := tx.QueryRowContext(ctx,
			r.dialect.rebind(`SELECT board_id FROM columns WHERE id = ?`), id,
		).Scan(&boardID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("column %d: %w", id, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get column %d: %w", id, err)
		}

		cards, err := count(ctx, tx, r.dialect, `SELECT COUNT(*) FROM cards WHERE column_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		if cards > 0 {
			return fmt.Errorf("column %d holds %d cards: %w", id, cards, models.ErrColumnHasCards)
		}

		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM columns WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete column %d: %w", id, err)
		}

		remaining, err := orderedIDs[types.ColumnID](ctx, tx, r.dialect,
			`SELECT id FROM columns WHERE board_id = ? ORDER BY position, id`, boardID)
		if err != nil {
			return err
		}
		for colID, pos := range models.Renumber(remaining) {
			if _, err := tx.ExecContext(ctx,
				r.dialect.rebind(`UPDATE columns SET position = ? WHERE id = ?`), pos, colID,
			); err != nil {
				return fmt.Errorf("failed to renumber column %d: %w", colID, err)
			}
		}
		return nil
	})
}

// BulkUpdateColumnPositions applies every update in one transaction.
// If any id is missing or belongs to another board nothing is written and
// models.ErrInconsistentBatch is returned.
func (r *ColumnRepo) BulkUpdateColumnPositions(ctx context.Context, boardID types.BoardID, updates []models.ColumnUpdate) (int, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, u := range updates {
			owner, err := columnBoard(ctx, tx, r.dialect, u.ID)
			if err != nil {
				return err
			}
			if owner != boardID {
				return fmt.Errorf("column %d is on board %d: %w", u.ID, owner, models.ErrInconsistentBatch)
			}
		}

		stmt := r.dialect.rebind(`UPDATE columns SET position = ? WHERE id = ?`)
		for _, u := range updates {
			if _, err := tx.ExecContext(ctx, stmt, u.Position, u.ID); err != nil {
				return fmt.Errorf("failed to update column %d: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(updates), nil
}

// columnBoard returns the board a column belongs to. A missing column is
// reported as an inconsistent batch.
func columnBoard(ctx context.Context, q querier, dialect Dialect, id types.ColumnID) (types.BoardID, error) {
	var boardID types.BoardID
	err := q.QueryRowContext(ctx,
		dialect.rebind(`SELECT board_id FROM columns WHERE id = ?`), id,
	).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("column %d does not exist: %w", id, models.ErrInconsistentBatch)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up column %d: %w", id, err)
	}
	return boardID, nil
}

// orderedIDs scans a single-column id query
func orderedIDs[T ~int](ctx context.Context, q querier, dialect Dialect, query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slogRowsClose(err)
		}
	}()

	var ids []T
	for rows.Next() {
		var id T
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
