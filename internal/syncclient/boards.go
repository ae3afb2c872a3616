package syncclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Access is the actor's standing on a board
type Access struct {
	Role       models.Role `json:"role"`
	CanReorder bool        `json:"canReorder"`
}

// FetchAccess reads the actor's role on the board
func (c *Client) FetchAccess(ctx context.Context, boardID types.BoardID) (*Access, error) {
	var access Access
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/boards/%d/access", boardID), nil, &access); err != nil {
		return nil, err
	}
	return &access, nil
}

// CreateBoard creates a board owned by the actor
func (c *Client) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	var b models.Board
	if err := c.do(ctx, http.MethodPost, "/api/boards", map[string]string{"name": name}, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateColumn appends a column to the board
func (c *Client) CreateColumn(ctx context.Context, boardID types.BoardID, name string) (*models.Column, error) {
	var col models.Column
	path := fmt.Sprintf("/api/boards/%d/columns", boardID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"name": name}, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// DeleteColumn removes an empty column
func (c *Client) DeleteColumn(ctx context.Context, columnID types.ColumnID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/columns/%d", columnID), nil, nil)
}

// NewCard is the body of a card creation request
type NewCard struct {
	Title    string     `json:"title"`
	Assignee string     `json:"assignee,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Priority int        `json:"priority,omitempty"`
}

// CreateCard appends a card to the column
func (c *Client) CreateCard(ctx context.Context, columnID types.ColumnID, in NewCard) (*models.Card, error) {
	var card models.Card
	path := fmt.Sprintf("/api/columns/%d/cards", columnID)
	if err := c.do(ctx, http.MethodPost, path, in, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// SetArchived freezes or unfreezes the board
func (c *Client) SetArchived(ctx context.Context, boardID types.BoardID, archived bool) error {
	path := fmt.Sprintf("/api/boards/%d/archived", boardID)
	return c.do(ctx, http.MethodPut, path, map[string]bool{"archived": archived}, nil)
}

// AddMember grants userID a role on the board
func (c *Client) AddMember(ctx context.Context, boardID types.BoardID, userID types.UserID, role models.Role) (*models.Member, error) {
	var m models.Member
	path := fmt.Sprintf("/api/boards/%d/members", boardID)
	body := models.Member{UserID: userID, Role: role}
	if err := c.do(ctx, http.MethodPost, path, body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
