package drag

import (
	"context"
	"log/slog"

	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// FetchFunc reads the board's current server state
type FetchFunc func(ctx context.Context, boardID types.BoardID) (*snapshot.Snapshot, error)

// Watch re-fetches the board on every change event for it and applies the
// result to store, last write wins. It returns when ctx is done or the
// subscription ends.
func Watch(ctx context.Context, sub events.Subscriber, fetch FetchFunc, store *Store, boardID types.BoardID) error {
	ch, err := sub.Listen(ctx)
	if err != nil {
		return err
	}

	for event := range ch {
		if event.Type != events.EventBoardChanged {
			continue
		}
		if event.BoardID != 0 && event.BoardID != boardID {
			continue
		}

		s, err := fetch(ctx, boardID)
		if err != nil {
			slog.Warn("failed to refresh board after remote change",
				"board_id", boardID,
				"sequence", event.SequenceID,
				"error", err)
			continue
		}
		store.ApplyRemote(s)
		slog.Debug("applied remote board state", "board_id", boardID, "sequence", event.SequenceID, "kind", event.Kind)
	}

	return ctx.Err()
}
