package column

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/drag"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// MoveCmd returns the column move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Reorder a column within its board",
		Long: `Drag a column to a new place on its board. The board updates
locally first and is restored if the server rejects the move.

Drop targets:
  <n>          1-based position
  over:<id>    take the place of another column
  end          last position

Examples:
  pasoboard column move --board 1 --id 3 --to 1
  pasoboard column move --board 1 --id 3 --to over:1 --json
`,
		RunE: runMove,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().Int("id", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("to", "end", "Drop target")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	columnID, _ := cmd.Flags().GetInt("id")
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

	result, err := session.Move(ctx, drag.ColumnItem(types.ColumnID(columnID)), drag.Target{Drop: drop})
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(result)
}
