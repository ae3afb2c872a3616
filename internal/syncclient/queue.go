package syncclient

import (
	"context"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// BatchKind says which bulk endpoint a batch goes to
type BatchKind int

const (
	BatchCards BatchKind = iota
	BatchColumns
)

// Batch is one drag's worth of position updates
type Batch struct {
	BoardID types.BoardID
	Kind    BatchKind
	Cards   []models.CardUpdate
	Columns []models.ColumnUpdate
}

// CardBatch builds a card batch
func CardBatch(boardID types.BoardID, updates []models.CardUpdate) Batch {
	return Batch{BoardID: boardID, Kind: BatchCards, Cards: updates}
}

// ColumnBatch builds a column batch
func ColumnBatch(boardID types.BoardID, updates []models.ColumnUpdate) Batch {
	return Batch{BoardID: boardID, Kind: BatchColumns, Columns: updates}
}

// Len returns the number of updates in the batch
func (b Batch) Len() int {
	if b.Kind == BatchColumns {
		return len(b.Columns)
	}
	return len(b.Cards)
}

// merge folds later into b. Ids keep their first slot; later values win.
func (b Batch) merge(later Batch) Batch {
	out := Batch{BoardID: b.BoardID, Kind: b.Kind}
	if b.Kind == BatchColumns {
		out.Columns = mergeByID(b.Columns, later.Columns, func(u models.ColumnUpdate) int { return int(u.ID) })
	} else {
		out.Cards = mergeByID(b.Cards, later.Cards, func(u models.CardUpdate) int { return int(u.ID) })
	}
	return out
}

func mergeByID[T any](first, later []T, id func(T) int) []T {
	out := make([]T, 0, len(first)+len(later))
	slot := make(map[int]int, len(first)+len(later))
	for _, list := range [][]T{first, later} {
		for _, u := range list {
			if i, ok := slot[id(u)]; ok {
				out[i] = u
				continue
			}
			slot[id(u)] = len(out)
			out = append(out, u)
		}
	}
	return out
}

// Ticket is the pending result of a submitted batch
type Ticket struct {
	done chan struct{}
	ack  *Ack
	err  error
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan struct{})}
}

func (t *Ticket) resolve(ack *Ack, err error) {
	t.ack, t.err = ack, err
	close(t.done)
}

// Done is closed once the result is known
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the batch resolves or ctx ends
func (t *Ticket) Wait(ctx context.Context) (*Ack, error) {
	select {
	case <-t.done:
		return t.ack, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type pending struct {
	batch   Batch
	tickets []*Ticket
}

// Queue keeps at most one bulk request in flight. Batches submitted while
// one is in flight are parked in order; a batch for the same board and kind
// as the last parked one is merged into it. When a request fails every
// parked batch is aborted, since each was computed on top of the rejected one.
type Queue struct {
	persister Persister

	mu       sync.Mutex
	inFlight bool
	parked   []*pending
	closed   bool
	wg       sync.WaitGroup
}

// NewQueue creates a queue sending through p
func NewQueue(p Persister) *Queue {
	return &Queue{persister: p}
}

// Submit enqueues the batch and returns its ticket
func (q *Queue) Submit(batch Batch) (*Ticket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}

	t := newTicket()

	if !q.inFlight {
		q.inFlight = true
		q.start(&pending{batch: batch, tickets: []*Ticket{t}})
		return t, nil
	}

	if n := len(q.parked); n > 0 {
		last := q.parked[n-1]
		if last.batch.BoardID == batch.BoardID && last.batch.Kind == batch.Kind {
			last.batch = last.batch.merge(batch)
			last.tickets = append(last.tickets, t)
			slog.Debug("coalesced parked batch", "board_id", batch.BoardID, "updates", last.batch.Len())
			return t, nil
		}
	}

	q.parked = append(q.parked, &pending{batch: batch, tickets: []*Ticket{t}})
	return t, nil
}

// Pending reports how many batches are parked behind the in-flight one
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.parked)
}

// start must be called with q.mu held
func (q *Queue) start(p *pending) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		ack, err := q.send(p.batch)
		q.finish(p, ack, err)
	}()
}

func (q *Queue) send(b Batch) (*Ack, error) {
	ctx := context.Background()
	if b.Kind == BatchColumns {
		return q.persister.PersistColumns(ctx, b.BoardID, b.Columns)
	}
	return q.persister.PersistCards(ctx, b.BoardID, b.Cards)
}

func (q *Queue) finish(p *pending, ack *Ack, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range p.tickets {
		t.resolve(ack, err)
	}

	if err != nil {
		if len(q.parked) > 0 {
			slog.Warn("aborting parked batches after failed sync",
				"board_id", p.batch.BoardID,
				"aborted", len(q.parked),
				"error", err)
		}
		q.abortParked(err)
		q.inFlight = false
		return
	}

	if len(q.parked) == 0 || q.closed {
		q.abortParked(ErrQueueClosed)
		q.inFlight = false
		return
	}

	next := q.parked[0]
	q.parked = q.parked[1:]
	q.start(next)
}

// abortParked must be called with q.mu held
func (q *Queue) abortParked(cause error) {
	for _, p := range q.parked {
		for _, t := range p.tickets {
			t.resolve(nil, &PersistenceError{Kind: KindAborted, Message: cause.Error(), Err: cause})
		}
	}
	q.parked = nil
}

// Close stops accepting batches, aborts parked ones and waits for the
// in-flight request to finish
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.abortParked(ErrQueueClosed)
	q.mu.Unlock()

	q.wg.Wait()
}
