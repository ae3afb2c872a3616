package drag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/pasoboard/internal/reorder"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Submitter accepts a batch for persistence
type Submitter interface {
	Submit(batch syncclient.Batch) (*syncclient.Ticket, error)
}

var _ Submitter = (*syncclient.Queue)(nil)

// Gate reports whether the current actor may reorder the board
type Gate func() bool

// StaticGate is a gate computed once, e.g. from the actor's board role
func StaticGate(allowed bool) Gate {
	return func() bool { return allowed }
}

// Controller runs drag cycles against a Store
type Controller struct {
	store     *Store
	submitter Submitter
	gate      Gate

	mu      sync.Mutex
	active  *Cycle   // gesture in progress
	syncing []*Cycle // unresolved cycles in submit order
	notices []func() // store notifications queued while mu is held
}

// NewController creates a controller. A nil gate allows every drag.
func NewController(store *Store, submitter Submitter, gate Gate) *Controller {
	if gate == nil {
		gate = StaticGate(true)
	}
	return &Controller{
		store:     store,
		submitter: submitter,
		gate:      gate,
	}
}

// State reports the active gesture's phase, Syncing while earlier cycles
// await the server, and Idle otherwise
func (ctl *Controller) State() State {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	if ctl.active != nil {
		return ctl.active.state
	}
	if len(ctl.syncing) > 0 {
		return Syncing
	}
	return Idle
}

// DragStart begins a gesture on item
func (ctl *Controller) DragStart(item ItemRef) error {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	if !ctl.gate() {
		return ErrForbidden
	}
	if ctl.active != nil {
		return ErrDragInProgress
	}
	if ctl.store.Current() == nil {
		return ErrNoSnapshot
	}
	if item.Kind != ItemCard && item.Kind != ItemColumn {
		return fmt.Errorf("%w: %d", ErrUnknownItemKind, item.Kind)
	}

	c := newCycle(item)
	if err := transition(&c.state, Idle, Dragging); err != nil {
		return err
	}
	ctl.active = c
	slog.Debug("drag started", "cycle", c.ID, "item", item.String())
	return nil
}

// DragCancel abandons the gesture without side effects
func (ctl *Controller) DragCancel() error {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	c := ctl.active
	if c == nil {
		return ErrNoActiveDrag
	}
	if err := transition(&c.state, Dragging, Idle); err != nil {
		return err
	}
	ctl.active = nil
	c.finish(OutcomeDiscarded, nil)
	return nil
}

// DragEnd releases the dragged item over drop, or over nothing when drop is nil.
//
// Releasing over nothing, or where nothing changes, discards the cycle.
// An unresolvable move discards the cycle and returns the validation error
// (matching reorder.ErrInvalidMove). Otherwise the optimistic snapshot is
// installed, the batch submitted, and the returned cycle resolves once the
// server answers.
func (ctl *Controller) DragEnd(drop *Target) (*Cycle, error) {
	ctl.mu.Lock()
	defer ctl.unlock()

	c := ctl.active
	if c == nil {
		return nil, ErrNoActiveDrag
	}
	ctl.active = nil

	if drop == nil {
		if err := transition(&c.state, Dragging, Idle); err != nil {
			return nil, err
		}
		c.finish(OutcomeDiscarded, nil)
		return c, nil
	}

	if err := transition(&c.state, Dragging, Resolving); err != nil {
		return nil, err
	}

	before := ctl.store.Current()
	batch, after, err := resolve(before, c, *drop)
	if err != nil || batch.Len() == 0 {
		if terr := transition(&c.state, Resolving, Idle); terr != nil {
			return nil, terr
		}
		c.finish(OutcomeDiscarded, nil)
		if err != nil {
			slog.Debug("drag discarded", "cycle", c.ID, "item", c.Item.String(), "error", err)
		}
		return c, err
	}

	if err := transition(&c.state, Resolving, Applying); err != nil {
		return nil, err
	}
	c.before = before
	c.after = after
	ctl.install(after)

	if err := transition(&c.state, Applying, Syncing); err != nil {
		return nil, err
	}

	ticket, err := ctl.submitter.Submit(batch)
	if err != nil {
		ctl.install(before)
		if terr := transition(&c.state, Syncing, Idle); terr != nil {
			return nil, terr
		}
		c.finish(OutcomeRolledBack, err)
		slog.Warn("drag rolled back", "cycle", c.ID, "error", err)
		return c, nil
	}

	ctl.syncing = append(ctl.syncing, c)
	go ctl.await(c, ticket)

	return c, nil
}

// install replaces the store's snapshot. Listeners run in unlock, after mu
// is released, so they may call back into the controller.
// Must be called with mu held.
func (ctl *Controller) install(s *snapshot.Snapshot) {
	ctl.notices = append(ctl.notices, ctl.store.install(s))
}

// unlock releases mu, then runs the store notifications queued under it
func (ctl *Controller) unlock() {
	notices := ctl.notices
	ctl.notices = nil
	ctl.mu.Unlock()

	for _, fn := range notices {
		fn()
	}
}

// resolve computes the batch for the cycle and the optimistic successor of before
func resolve(before *snapshot.Snapshot, c *Cycle, drop Target) (syncclient.Batch, *snapshot.Snapshot, error) {
	boardID := types.BoardID(0)
	if before != nil {
		boardID = before.Board.ID
	}

	switch c.Item.Kind {
	case ItemColumn:
		updates, err := reorder.CalculateColumnMove(before, reorder.ColumnMove{
			ColumnID: types.ColumnID(c.Item.ID),
			Drop:     drop.Drop,
		})
		if err != nil {
			return syncclient.Batch{}, nil, err
		}
		c.columns = updates
		return syncclient.ColumnBatch(boardID, updates), snapshot.ApplyColumnUpdates(before, updates), nil

	default:
		updates, err := reorder.CalculateCardMove(before, reorder.CardMove{
			CardID:         types.CardID(c.Item.ID),
			TargetColumnID: drop.ColumnID,
			Drop:           drop.Drop,
		})
		if err != nil {
			return syncclient.Batch{}, nil, err
		}
		c.cards = updates
		return syncclient.CardBatch(boardID, updates), snapshot.ApplyCardUpdates(before, updates), nil
	}
}

// await resolves c with the server's answer
func (ctl *Controller) await(c *Cycle, ticket *syncclient.Ticket) {
	_, err := ticket.Wait(context.Background())

	ctl.mu.Lock()
	defer ctl.unlock()

	if c.finished() {
		// rolled back with an earlier cycle
		return
	}

	idx := -1
	for i, s := range ctl.syncing {
		if s == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if err == nil {
		if terr := transition(&c.state, Syncing, Idle); terr != nil {
			slog.Error("drag commit", "cycle", c.ID, "error", terr)
		}
		c.finish(OutcomeCommitted, nil)
		ctl.syncing = append(ctl.syncing[:idx], ctl.syncing[idx+1:]...)
		slog.Debug("drag committed", "cycle", c.ID, "item", c.Item.String())
		return
	}

	// An aborted batch means an earlier cycle failed; that cycle restores
	// the older snapshot when its own answer is processed.
	if !(idx > 0 && errors.Is(err, syncclient.ErrAborted)) {
		ctl.install(c.before)
	}

	slog.Warn("drag rolled back",
		"cycle", c.ID,
		"item", c.Item.String(),
		"later_cycles", len(ctl.syncing)-idx-1,
		"error", err)

	for i, s := range ctl.syncing[idx:] {
		cause := err
		if i > 0 {
			cause = fmt.Errorf("%w: %w", syncclient.ErrAborted, err)
		}
		if terr := transition(&s.state, Syncing, Idle); terr != nil {
			slog.Error("drag rollback", "cycle", s.ID, "error", terr)
		}
		s.finish(OutcomeRolledBack, cause)
	}
	ctl.syncing = ctl.syncing[:idx]
}
