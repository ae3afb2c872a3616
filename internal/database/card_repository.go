package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// CardRepo handles card persistence and card ordering
type CardRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewCardRepo creates a new card repository
func NewCardRepo(db *sql.DB, dialect Dialect) *CardRepo {
	return &CardRepo{db: db, dialect: dialect}
}

const cardColumns = `k.id, k.column_id, k.title, k.position, k.assignee, k.due_date, k.priority`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	card := &models.Card{}
	var due sql.NullTime
	if err := row.Scan(&card.ID, &card.ColumnID, &card.Title, &card.Position,
		&card.Assignee, &due, &card.Priority); err != nil {
		return nil, err
	}
	card.DueDate = nullTimeToPtr(due)
	return card, nil
}

// CreateCard appends a card at position count+1 of its column.
// ID and Position of the input are ignored.
func (r *CardRepo) CreateCard(ctx context.Context, in models.Card) (*models.Card, error) {
	card := in

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			r.dialect.rebind(`SELECT 1 FROM columns WHERE id = ?`), in.ColumnID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("column %d: %w", in.ColumnID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check column: %w", err)
		}

		n, err := count(ctx, tx, r.dialect, `SELECT COUNT(*) FROM cards WHERE column_id = ?`, in.ColumnID)
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		card.Position = models.NextPosition(n)

		err = tx.QueryRowContext(ctx, r.dialect.rebind(`
			INSERT INTO cards (column_id, title, position, assignee, due_date, priority)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			in.ColumnID, in.Title, card.Position, in.Assignee, timePtrToNull(in.DueDate), in.Priority,
		).Scan(&card.ID)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCard returns the card with id, or models.ErrNotFound
func (r *CardRepo) GetCard(ctx context.Context, id types.CardID) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT `+cardColumns+` FROM cards k WHERE k.id = ?`), id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	return card, nil
}

// GetCardsByBoard returns every card on the board ordered by column
// position, then card position, then id
func (r *CardRepo) GetCardsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`
		SELECT `+cardColumns+`
		FROM cards k
		INNER JOIN columns c ON c.id = k.column_id
		WHERE c.board_id = ?
		ORDER BY c.position, k.position, k.id`), boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slogRowsClose(err)
		}
	}()

	cards := make([]*models.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// DeleteCard removes a card and renumbers its former siblings densely
func (r *CardRepo) DeleteCard(ctx context.Context, id types.CardID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var columnID types.ColumnID
		err := tx.QueryRowContext(ctx,
			r.dialect.rebind(`SELECT column_id FROM cards WHERE id = ?`), id,
		).Scan(&columnID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("card %d: %w", id, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get card %d: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM cards WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete card %d: %w", id, err)
		}

		remaining, err := orderedIDs[types.CardID](ctx, tx, r.dialect,
			`SELECT id FROM cards WHERE column_id = ? ORDER BY position, id`, columnID)
		if err != nil {
			return err
		}
		for cardID, pos := range models.Renumber(remaining) {
			if _, err := tx.ExecContext(ctx,
				r.dialect.rebind(`UPDATE cards SET position = ? WHERE id = ?`), pos, cardID,
			); err != nil {
				return fmt.Errorf("failed to renumber card %d: %w", cardID, err)
			}
		}
		return nil
	})
}

// BulkUpdateCardPositions moves every card in updates to its column and
// position in one transaction. Every card and every target column must exist
// and belong to boardID; otherwise nothing is written and
// models.ErrInconsistentBatch is returned.
func (r *CardRepo) BulkUpdateCardPositions(ctx context.Context, boardID types.BoardID, updates []models.CardUpdate) (int, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		lookup := r.dialect.rebind(`
			SELECT c.board_id FROM cards k
			INNER JOIN columns c ON c.id = k.column_id
			WHERE k.id = ?`)

		for _, u := range updates {
			var owner types.BoardID
			err := tx.QueryRowContext(ctx, lookup, u.ID).Scan(&owner)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("card %d does not exist: %w", u.ID, models.ErrInconsistentBatch)
			}
			if err != nil {
				return fmt.Errorf("failed to look up card %d: %w", u.ID, err)
			}
			if owner != boardID {
				return fmt.Errorf("card %d is on board %d: %w", u.ID, owner, models.ErrInconsistentBatch)
			}

			target, err := columnBoard(ctx, tx, r.dialect, u.ColumnID)
			if err != nil {
				return err
			}
			if target != boardID {
				return fmt.Errorf("column %d is on board %d: %w", u.ColumnID, target, models.ErrInconsistentBatch)
			}
		}

		stmt := r.dialect.rebind(`
			UPDATE cards SET column_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`)
		for _, u := range updates {
			if _, err := tx.ExecContext(ctx, stmt, u.ColumnID, u.Position, u.ID); err != nil {
				return fmt.Errorf("failed to update card %d: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(updates), nil
}
