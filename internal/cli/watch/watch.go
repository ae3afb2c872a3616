package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/cli/styles"
	"github.com/thenoetrevino/pasoboard/internal/drag"
	"github.com/thenoetrevino/pasoboard/internal/events"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a board live",
		Long: `Render a board and re-render it whenever someone changes it.
Runs until interrupted.

Examples:
  pasoboard watch --board 1

  # One JSON document per change, for agents
  pasoboard watch --board 1 --json
`,
		RunE: runWatch,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().Int("retries", 5, "Reconnection attempts after the stream drops")

	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	retries, _ := cmd.Flags().GetInt("retries")

	id, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	snap, err := cliInstance.Client.FetchBoard(ctx, id)
	if err != nil {
		return formatter.Fail(err)
	}

	sub, err := events.NewClient(cliInstance.Config.Client.BaseURL, id, cliInstance.Actor(),
		events.WithReconnect(retries, time.Second))
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := sub.Close(); err != nil {
			slog.Error("failed to close event stream", "error", err)
		}
	}()

	if err := sub.Connect(ctx); err != nil {
		return formatter.Fail(err)
	}

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	render := func(s *snapshot.Snapshot) {
		mu.Lock()
		defer mu.Unlock()

		if formatter.JSON {
			if err := json.NewEncoder(out).Encode(snapshot.ToPayload(s)); err != nil {
				slog.Error("failed to write board", "error", err)
			}
			return
		}
		fmt.Fprintln(out, styles.RenderBoard(s))
	}

	store := drag.NewStore(snap)
	store.OnChange(render)
	render(snap)

	err = drag.Watch(ctx, sub, cliInstance.Client.FetchBoard, store, id)
	if err != nil && !errors.Is(err, context.Canceled) {
		return formatter.Fail(err)
	}
	return nil
}
