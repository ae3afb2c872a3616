package card

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/drag"
	"github.com/thenoetrevino/pasoboard/internal/reorder"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// MoveCmd returns the card move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a card within or across columns",
		Long: `Drag a card to a new place. The board updates locally first and
is restored if the server rejects the move.

The target column is given by id or name (case-insensitive). Without
--column the card stays in its column, unless --to over:<id> names a
card in another column.

Drop targets:
  <n>          1-based position in the target column
  over:<id>    take the place of another card
  end          bottom of the column

Examples:
  # Reorder within the current column
  pasoboard card move --board 1 --id 7 --to 1

  # Move to another column by name
  pasoboard card move --board 1 --id 7 --column "In Progress" --to 2

  # JSON output for agents
  pasoboard card move --board 1 --id 7 --column done --json
`,
		RunE: runMove,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().Int("id", 0, "Card ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("column", "", "Target column ID or name")
	cmd.Flags().String("to", "end", "Drop target")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	cardID, _ := cmd.Flags().GetInt("id")
	columnRef, _ := cmd.Flags().GetString("column")
	to, _ := cmd.Flags().GetString("to")

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	drop, err := cli.ParseDrop(to)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	session, err := cliInstance.OpenBoard(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}
	defer session.Close()

	snap := session.Store.Current()
	current, _, err := cli.FindCard(snap, types.CardID(cardID))
	if err != nil {
		return formatter.Fail(err)
	}

	target, err := targetColumn(snap, current, columnRef, drop)
	if err != nil {
		return formatter.FailWithSuggestion(err, fmt.Sprintf("Available columns: %s", cli.FormatAvailableColumns(snap)))
	}

	result, err := session.Move(ctx, drag.CardItem(types.CardID(cardID)), drag.Target{ColumnID: target.ID, Drop: drop})
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(result)
}

// targetColumn picks the receiving column: the named one, the column of the
// card dropped onto, or the card's own column
func targetColumn(snap *snapshot.Snapshot, current *snapshot.ColumnState, ref string, drop reorder.Drop) (*snapshot.ColumnState, error) {
	if ref != "" {
		return cli.FindColumn(snap, ref)
	}
	if drop.Kind == reorder.DropOverItem {
		if cs, _, err := cli.FindCard(snap, types.CardID(drop.ItemID)); err == nil {
			return cs, nil
		}
	}
	return current, nil
}
