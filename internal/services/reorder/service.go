// Package reorder applies bulk position updates on behalf of a board member.
// A batch is validated, authorized, then written in a single transaction;
// after commit the change is audited and announced to watchers.
package reorder

import (
	"context"
	"fmt"
	"time"

	"github.com/thenoetrevino/pasoboard/internal/database"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/logging"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/rbac"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Service defines the bulk reorder operations
type Service interface {
	ReorderCards(ctx context.Context, actor types.UserID, boardID types.BoardID, updates []models.CardUpdate) (int, error)
	ReorderColumns(ctx context.Context, actor types.UserID, boardID types.BoardID, updates []models.ColumnUpdate) (int, error)
}

type service struct {
	store     database.DataStore
	boards    board.Service
	publisher events.Publisher
}

// NewService creates a new reorder service. publisher may be nil.
func NewService(store database.DataStore, boards board.Service, publisher events.Publisher) Service {
	return &service{store: store, boards: boards, publisher: publisher}
}

// ReorderCards writes every card update or none of them
func (s *service) ReorderCards(ctx context.Context, actor types.UserID, boardID types.BoardID, updates []models.CardUpdate) (int, error) {
	if err := validateCards(updates); err != nil {
		return 0, err
	}
	if err := s.authorize(ctx, actor, boardID); err != nil {
		return 0, err
	}

	n, err := s.store.BulkUpdateCardPositions(ctx, boardID, updates)
	if err != nil {
		return 0, err
	}

	logging.Audit().Info("cards reordered",
		"board_id", boardID,
		"actor_id", actor,
		"count", n)
	s.publish(boardID, actor, events.ChangeCards, n)
	return n, nil
}

// ReorderColumns writes every column update or none of them
func (s *service) ReorderColumns(ctx context.Context, actor types.UserID, boardID types.BoardID, updates []models.ColumnUpdate) (int, error) {
	if err := validateColumns(updates); err != nil {
		return 0, err
	}
	if err := s.authorize(ctx, actor, boardID); err != nil {
		return 0, err
	}

	n, err := s.store.BulkUpdateColumnPositions(ctx, boardID, updates)
	if err != nil {
		return 0, err
	}

	logging.Audit().Info("columns reordered",
		"board_id", boardID,
		"actor_id", actor,
		"count", n)
	s.publish(boardID, actor, events.ChangeColumns, n)
	return n, nil
}

func (s *service) authorize(ctx context.Context, actor types.UserID, boardID types.BoardID) error {
	b, _, err := s.boards.Authorize(ctx, actor, boardID, rbac.ActionReorder)
	if err != nil {
		return err
	}
	if b.Archived {
		return fmt.Errorf("board %d: %w", boardID, models.ErrBoardArchived)
	}
	return nil
}

func (s *service) publish(boardID types.BoardID, actor types.UserID, kind events.ChangeKind, n int) {
	_ = events.PublishWithRetry(s.publisher, events.Event{
		Type:      events.EventBoardChanged,
		BoardID:   boardID,
		Kind:      kind,
		ActorID:   actor,
		Count:     n,
		Timestamp: time.Now(),
	}, 3)
}

func validateCards(updates []models.CardUpdate) error {
	if len(updates) == 0 {
		return ErrEmptyBatch
	}
	seen := make(map[types.CardID]struct{}, len(updates))
	for _, u := range updates {
		if !u.ID.Valid() || !u.ColumnID.Valid() {
			return fmt.Errorf("%w: card %d in column %d", ErrInvalidID, u.ID, u.ColumnID)
		}
		if u.Position < 1 {
			return fmt.Errorf("%w: card %d at %d", ErrInvalidPosition, u.ID, u.Position)
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: card %d", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

func validateColumns(updates []models.ColumnUpdate) error {
	if len(updates) == 0 {
		return ErrEmptyBatch
	}
	seen := make(map[types.ColumnID]struct{}, len(updates))
	for _, u := range updates {
		if !u.ID.Valid() {
			return fmt.Errorf("%w: column %d", ErrInvalidID, u.ID)
		}
		if u.Position < 1 {
			return fmt.Errorf("%w: column %d at %d", ErrInvalidPosition, u.ID, u.Position)
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: column %d", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}
