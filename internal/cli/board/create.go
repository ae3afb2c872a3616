package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/models"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a new board owned by the current user.

Examples:
  pasoboard board create --name "Roadmap"

  # Quiet mode for bash capture
  BOARD_ID=$(pasoboard board create --name "Roadmap" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Board name (required)")
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

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	b, err := cliInstance.Client.CreateBoard(ctx, name)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(createdBoard{*b})
}

type createdBoard struct {
	models.Board
}

func (b createdBoard) GetID() int { return b.ID.ToInt() }

func (b createdBoard) Human() string {
	return fmt.Sprintf("Board '%s' created (ID: %d)", b.Name, b.ID)
}
