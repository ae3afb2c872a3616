// Package board owns the lifecycle of boards, columns and cards outside of
// reordering: creation at the end of a container, gated column deletion,
// membership and the snapshot read used by clients.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/pasoboard/internal/database"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/logging"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/rbac"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Service defines all board-related business operations
type Service interface {
	// Read operations
	GetSnapshot(ctx context.Context, actor types.UserID, boardID types.BoardID) (*snapshot.Snapshot, error)
	Authorize(ctx context.Context, actor types.UserID, boardID types.BoardID, action rbac.Action) (*models.Board, models.Role, error)

	// Write operations
	CreateBoard(ctx context.Context, actor types.UserID, name string) (*models.Board, error)
	SetArchived(ctx context.Context, actor types.UserID, boardID types.BoardID, archived bool) error
	AddMember(ctx context.Context, actor types.UserID, boardID types.BoardID, userID types.UserID, role models.Role) error
	CreateColumn(ctx context.Context, actor types.UserID, boardID types.BoardID, name string) (*models.Column, error)
	DeleteColumn(ctx context.Context, actor types.UserID, columnID types.ColumnID) error
	CreateCard(ctx context.Context, actor types.UserID, req CreateCardRequest) (*models.Card, error)
}

// CreateCardRequest encapsulates data for creating a card
type CreateCardRequest struct {
	ColumnID types.ColumnID `json:"-"`
	Title    string         `json:"title"`
	Assignee string         `json:"assignee,omitempty"`
	DueDate  *time.Time     `json:"dueDate,omitempty"`
	Priority int            `json:"priority,omitempty"`
}

type service struct {
	store     database.DataStore
	publisher events.Publisher
}

// NewService creates a new board service. publisher may be nil.
func NewService(store database.DataStore, publisher events.Publisher) Service {
	return &service{store: store, publisher: publisher}
}

// Authorize loads the board and checks the actor's role allows action.
// Non-members are forbidden; a missing board is models.ErrNotFound.
func (s *service) Authorize(ctx context.Context, actor types.UserID, boardID types.BoardID, action rbac.Action) (*models.Board, models.Role, error) {
	if !boardID.Valid() {
		return nil, "", ErrInvalidBoardID
	}
	if !actor.Valid() {
		return nil, "", ErrInvalidUserID
	}

	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, "", err
	}

	role, err := s.store.GetMemberRole(ctx, boardID, actor)
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", fmt.Errorf("user %d is not a member of board %d: %w", actor, boardID, ErrForbidden)
	}
	if err != nil {
		return nil, "", err
	}

	if !rbac.Can(role, action) {
		return nil, role, fmt.Errorf("role %s cannot %s: %w", role, action, ErrForbidden)
	}
	return b, role, nil
}

// GetSnapshot returns the board with its columns and cards ordered by position
func (s *service) GetSnapshot(ctx context.Context, actor types.UserID, boardID types.BoardID) (*snapshot.Snapshot, error) {
	b, _, err := s.Authorize(ctx, actor, boardID, rbac.ActionRead)
	if err != nil {
		return nil, err
	}

	columns, err := s.store.GetColumnsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	cards, err := s.store.GetCardsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	return snapshot.New(*b, derefAll(columns), derefAll(cards)), nil
}

// CreateBoard creates a board owned by actor
func (s *service) CreateBoard(ctx context.Context, actor types.UserID, name string) (*models.Board, error) {
	if !actor.Valid() {
		return nil, ErrInvalidUserID
	}
	if err := validateName(name, models.MaxBoardNameLength); err != nil {
		return nil, err
	}

	b, err := s.store.CreateBoard(ctx, name, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	logging.Audit().Info("board created", "board_id", b.ID, "actor_id", actor)
	return b, nil
}

// SetArchived archives or restores a board. Requires manage_members.
func (s *service) SetArchived(ctx context.Context, actor types.UserID, boardID types.BoardID, archived bool) error {
	if _, _, err := s.Authorize(ctx, actor, boardID, rbac.ActionManageMembers); err != nil {
		return err
	}
	if err := s.store.SetArchived(ctx, boardID, archived); err != nil {
		return err
	}

	logging.Audit().Info("board archive flag changed", "board_id", boardID, "actor_id", actor, "archived", archived)
	s.publish(boardID, actor, events.ChangeBoard, 1)
	return nil
}

// AddMember grants userID role on the board
func (s *service) AddMember(ctx context.Context, actor types.UserID, boardID types.BoardID, userID types.UserID, role models.Role) error {
	if !userID.Valid() {
		return ErrInvalidUserID
	}
	if _, ok := models.ParseRole(string(role)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if _, _, err := s.Authorize(ctx, actor, boardID, rbac.ActionManageMembers); err != nil {
		return err
	}

	if err := s.store.AddMember(ctx, boardID, userID, role); err != nil {
		return err
	}

	logging.Audit().Info("member added", "board_id", boardID, "actor_id", actor, "user_id", userID, "role", role)
	return nil
}

// CreateColumn appends a column to the board
func (s *service) CreateColumn(ctx context.Context, actor types.UserID, boardID types.BoardID, name string) (*models.Column, error) {
	if err := validateName(name, models.MaxColumnNameLength); err != nil {
		return nil, err
	}
	if err := s.authorizeStructure(ctx, actor, boardID); err != nil {
		return nil, err
	}

	column, err := s.store.CreateColumn(ctx, boardID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	logging.Audit().Info("column created", "board_id", boardID, "actor_id", actor, "column_id", column.ID, "position", column.Position)
	s.publish(boardID, actor, events.ChangeColumns, 1)
	return column, nil
}

// DeleteColumn deletes an empty column (business rule: must not hold cards)
func (s *service) DeleteColumn(ctx context.Context, actor types.UserID, columnID types.ColumnID) error {
	if !columnID.Valid() {
		return ErrInvalidColumn
	}

	column, err := s.store.GetColumn(ctx, columnID)
	if err != nil {
		return err
	}
	if err := s.authorizeStructure(ctx, actor, column.BoardID); err != nil {
		return err
	}

	if err := s.store.DeleteColumn(ctx, columnID); err != nil {
		return err
	}

	logging.Audit().Info("column deleted", "board_id", column.BoardID, "actor_id", actor, "column_id", columnID)
	s.publish(column.BoardID, actor, events.ChangeColumns, 1)
	return nil
}

// CreateCard appends a card to a column
func (s *service) CreateCard(ctx context.Context, actor types.UserID, req CreateCardRequest) (*models.Card, error) {
	if !req.ColumnID.Valid() {
		return nil, ErrInvalidColumn
	}
	if err := validateName(req.Title, models.MaxCardTitleLength); err != nil {
		return nil, err
	}
	if _, ok := models.PriorityByID(req.Priority); !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, req.Priority)
	}

	column, err := s.store.GetColumn(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStructure(ctx, actor, column.BoardID); err != nil {
		return nil, err
	}

	card, err := s.store.CreateCard(ctx, models.Card{
		ColumnID: req.ColumnID,
		Title:    req.Title,
		Assignee: req.Assignee,
		DueDate:  req.DueDate,
		Priority: req.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	logging.Audit().Info("card created", "board_id", column.BoardID, "actor_id", actor, "card_id", card.ID, "position", card.Position)
	s.publish(column.BoardID, actor, events.ChangeCards, 1)
	return card, nil
}

// authorizeStructure checks edit_structure and rejects archived boards
func (s *service) authorizeStructure(ctx context.Context, actor types.UserID, boardID types.BoardID) error {
	b, _, err := s.Authorize(ctx, actor, boardID, rbac.ActionEditStructure)
	if err != nil {
		return err
	}
	if b.Archived {
		return fmt.Errorf("board %d: %w", boardID, models.ErrBoardArchived)
	}
	return nil
}

func (s *service) publish(boardID types.BoardID, actor types.UserID, kind events.ChangeKind, n int) {
	// failures are logged by PublishWithRetry; watchers catch up on their next fetch
	_ = events.PublishWithRetry(s.publisher, events.Event{
		Type:      events.EventBoardChanged,
		BoardID:   boardID,
		Kind:      kind,
		ActorID:   actor,
		Count:     n,
		Timestamp: time.Now(),
	}, 3)
}

func validateName(name string, limit int) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > limit {
		return fmt.Errorf("%w: limit is %d characters", ErrNameTooLong, limit)
	}
	return nil
}

func derefAll[T any](in []*T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = *v
	}
	return out
}
