package drag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/reorder"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ItemKind says what is being dragged
type ItemKind int

const (
	ItemCard ItemKind = iota
	ItemColumn
)

// ItemRef names the dragged card or column
type ItemRef struct {
	Kind ItemKind
	ID   int
}

// CardItem refers to a card
func CardItem(id types.CardID) ItemRef {
	return ItemRef{Kind: ItemCard, ID: int(id)}
}

// ColumnItem refers to a column
func ColumnItem(id types.ColumnID) ItemRef {
	return ItemRef{Kind: ItemColumn, ID: int(id)}
}

func (r ItemRef) String() string {
	if r.Kind == ItemColumn {
		return fmt.Sprintf("column %d", r.ID)
	}
	return fmt.Sprintf("card %d", r.ID)
}

// Target is where a dragged item was released. ColumnID is the receiving
// column of a card drag and is ignored for column drags.
type Target struct {
	ColumnID types.ColumnID
	Drop     reorder.Drop
}

// Outcome is how a cycle ended
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeDiscarded
	OutcomeCommitted
	OutcomeRolledBack
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeCommitted:
		return "committed"
	case OutcomeRolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Cycle is one drag from DragStart until it is discarded, committed or
// rolled back. Fields are guarded by the owning Controller's mutex.
type Cycle struct {
	ID   string
	Item ItemRef

	state   State
	before  *snapshot.Snapshot
	after   *snapshot.Snapshot
	cards   []models.CardUpdate
	columns []models.ColumnUpdate

	outcome Outcome
	err     error
	done    chan struct{}
}

func newCycle(item ItemRef) *Cycle {
	return &Cycle{
		ID:    uuid.NewString(),
		Item:  item,
		state: Idle,
		done:  make(chan struct{}),
	}
}

// finish records the outcome and moves the cycle back to Idle
func (c *Cycle) finish(outcome Outcome, err error) {
	c.state = Idle
	c.outcome = outcome
	c.err = err
	close(c.done)
}

func (c *Cycle) finished() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done is closed when the cycle has an outcome
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the cycle ends. A rolled back cycle reports the
// persistence failure that caused it.
func (c *Cycle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-c.done:
		return c.outcome, c.err
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// CardUpdates returns the card batch this cycle produced
func (c *Cycle) CardUpdates() []models.CardUpdate {
	return c.cards
}

// ColumnUpdates returns the column batch this cycle produced
func (c *Cycle) ColumnUpdates() []models.ColumnUpdate {
	return c.columns
}

// Before returns the snapshot captured just before the optimistic apply
func (c *Cycle) Before() *snapshot.Snapshot {
	return c.before
}
