package cli

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/pasoboard/internal/drag"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Session is a loaded board with a drag controller persisting through the server
type Session struct {
	BoardID types.BoardID
	Store   *drag.Store
	Access  *syncclient.Access

	ctl   *drag.Controller
	queue *syncclient.Queue
}

// OpenBoard fetches the board and the actor's access to it
func (c *CLI) OpenBoard(ctx context.Context, boardID types.BoardID) (*Session, error) {
	snap, err := c.Client.FetchBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load board %d: %w", boardID, err)
	}
	access, err := c.Client.FetchAccess(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to read access to board %d: %w", boardID, err)
	}

	store := drag.NewStore(snap)
	queue := syncclient.NewQueue(c.Client)

	return &Session{
		BoardID: boardID,
		Store:   store,
		Access:  access,
		ctl:     drag.NewController(store, queue, drag.StaticGate(access.CanReorder)),
		queue:   queue,
	}, nil
}

// Close stops the sync queue
func (s *Session) Close() {
	s.queue.Close()
}

// Move runs one drag of item onto target and waits for the server's answer.
// A rolled back move returns the persistence error.
func (s *Session) Move(ctx context.Context, item drag.ItemRef, target drag.Target) (*MoveResult, error) {
	if err := s.ctl.DragStart(item); err != nil {
		return nil, err
	}

	cycle, err := s.ctl.DragEnd(&target)
	if err != nil {
		return nil, err
	}

	outcome, err := cycle.Wait(ctx)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		Kind:  "card",
		ID:    item.ID,
		Moved: outcome == drag.OutcomeCommitted,
	}

	current := s.Store.Current()
	if item.Kind == drag.ItemColumn {
		result.Kind = "column"
		result.Updated = len(cycle.ColumnUpdates())
		if cs, ok := current.Column(types.ColumnID(item.ID)); ok {
			result.Column = cs.Name
			result.Position = cs.Position
		}
		return result, nil
	}

	result.Updated = len(cycle.CardUpdates())
	if cs, idx, err := FindCard(current, types.CardID(item.ID)); err == nil {
		result.Column = cs.Name
		result.Position = cs.Cards[idx].Position
	}
	return result, nil
}

// MoveResult reports where a dragged item ended up
type MoveResult struct {
	Kind     string `json:"kind"`
	ID       int    `json:"id"`
	Column   string `json:"column"`
	Position int    `json:"position"`
	Moved    bool   `json:"moved"`
	Updated  int    `json:"updated"`
}

// GetID returns the moved item's id
func (r *MoveResult) GetID() int {
	return r.ID
}

// Human returns a one-line summary
func (r *MoveResult) Human() string {
	if r.Kind == "column" {
		if !r.Moved {
			return fmt.Sprintf("Column '%s' is already at position %d", r.Column, r.Position)
		}
		return fmt.Sprintf("Column '%s' moved to position %d (%d columns renumbered)", r.Column, r.Position, r.Updated)
	}
	if !r.Moved {
		return fmt.Sprintf("Card %d is already at position %d in '%s'", r.ID, r.Position, r.Column)
	}
	return fmt.Sprintf("Card %d moved to '%s' at position %d (%d cards renumbered)", r.ID, r.Column, r.Position, r.Updated)
}
