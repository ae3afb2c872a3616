package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// BoardRepo handles boards and their membership
type BoardRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewBoardRepo creates a new board repository
func NewBoardRepo(db *sql.DB, dialect Dialect) *BoardRepo {
	return &BoardRepo{db: db, dialect: dialect}
}

// CreateBoard inserts a board and records the owner as a member in one transaction
func (r *BoardRepo) CreateBoard(ctx context.Context, name string, ownerID types.UserID) (*models.Board, error) {
	board := &models.Board{Name: name, OwnerID: ownerID}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			r.dialect.rebind(`INSERT INTO boards (name, owner_id) VALUES (?, ?) RETURNING id`),
			name, ownerID,
		).Scan(&board.ID)
		if err != nil {
			return fmt.Errorf("failed to insert board: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			r.dialect.rebind(`INSERT INTO board_members (board_id, user_id, role) VALUES (?, ?, ?)`),
			board.ID, ownerID, models.RoleOwner,
		)
		if err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// GetBoard returns the board with id, or models.ErrNotFound
func (r *BoardRepo) GetBoard(ctx context.Context, id types.BoardID) (*models.Board, error) {
	board := &models.Board{}
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT id, name, archived, owner_id FROM boards WHERE id = ?`), id,
	).Scan(&board.ID, &board.Name, &board.Archived, &board.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board %d: %w", id, err)
	}
	return board, nil
}

// SetArchived flags a board archived (or restores it)
func (r *BoardRepo) SetArchived(ctx context.Context, id types.BoardID, archived bool) error {
	res, err := r.db.ExecContext(ctx,
		r.dialect.rebind(`UPDATE boards SET archived = ? WHERE id = ?`), archived, id)
	if err != nil {
		return fmt.Errorf("failed to update board %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("board %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddMember grants userID role on the board, replacing an existing role
func (r *BoardRepo) AddMember(ctx context.Context, boardID types.BoardID, userID types.UserID, role models.Role) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO board_members (board_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT (board_id, user_id) DO UPDATE SET role = excluded.role`),
		boardID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("failed to add member %d to board %d: %w", userID, boardID, err)
	}
	return nil
}

// GetMemberRole returns userID's role on the board, or models.ErrNotFound
// when the user is not a member
func (r *BoardRepo) GetMemberRole(ctx context.Context, boardID types.BoardID, userID types.UserID) (models.Role, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT role FROM board_members WHERE board_id = ? AND user_id = ?`),
		boardID, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("member %d on board %d: %w", userID, boardID, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get member role: %w", err)
	}

	role, ok := models.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("stored role %q is not recognised", raw)
	}
	return role, nil
}

// ListMembers returns the board's members ordered by user id
func (r *BoardRepo) ListMembers(ctx context.Context, boardID types.BoardID) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		r.dialect.rebind(`SELECT user_id, role FROM board_members WHERE board_id = ? ORDER BY user_id`),
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slogRowsClose(err)
		}
	}()

	var members []models.Member
	for rows.Next() {
		m := models.Member{BoardID: boardID}
		var raw string
		if err := rows.Scan(&m.UserID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(raw)
		members = append(members, m)
	}
	return members, rows.Err()
}
