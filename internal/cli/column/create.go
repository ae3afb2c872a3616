package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/models"
)

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a column to a board",
		Long: `Append a column to the end of a board.

Examples:
  # Create column at end (human-readable output)
  pasoboard column create --name "Review" --board 1

  # Quiet mode for bash capture
  COLUMN_ID=$(pasoboard column create --name "Review" --board 1 --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Column name (required)")
	cli.AddBoardFlag(cmd)
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	name, _ := cmd.Flags().GetString("name")

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	col, err := cliInstance.Client.CreateColumn(ctx, boardID, name)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(createdColumn{*col})
}

type createdColumn struct {
	models.Column
}

func (c createdColumn) GetID() int { return c.ID.ToInt() }

func (c createdColumn) Human() string {
	return fmt.Sprintf("Column '%s' created (ID: %d, position %d)", c.Name, c.ID, c.Position)
}
