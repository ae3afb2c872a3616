package board

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/cli/styles"
	"github.com/thenoetrevino/pasoboard/internal/snapshot"
)

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a board with its columns and cards",
		Long: `Show a board with its columns and cards in position order.

Examples:
  # Render the board
  pasoboard board show --board 1

  # JSON output for agents
  pasoboard board show --board 1 --json
`,
		RunE: runShow,
	}

	cli.AddBoardFlag(cmd)

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	snap, err := cliInstance.Client.FetchBoard(ctx, boardID)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(boardView{snap})
}

// boardView renders a snapshot for each output mode
type boardView struct {
	snap *snapshot.Snapshot
}

func (v boardView) GetID() int { return v.snap.Board.ID.ToInt() }

func (v boardView) Human() string { return styles.RenderBoard(v.snap) }

func (v boardView) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot.ToPayload(v.snap))
}
