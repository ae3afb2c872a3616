package column

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an empty column",
		Long: `Delete a column. Columns that still hold cards are refused;
the remaining columns are renumbered.

Examples:
  pasoboard column delete --id 4
`,
		RunE: runDelete,
	}

	cmd.Flags().Int("id", 0, "Column ID (required)")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	columnID, _ := cmd.Flags().GetInt("id")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if err := cliInstance.Client.DeleteColumn(ctx, types.ColumnID(columnID)); err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(deleted{ColumnID: columnID})
}

type deleted struct {
	ColumnID int `json:"columnId"`
}

func (d deleted) GetID() int { return d.ColumnID }

func (d deleted) Human() string { return fmt.Sprintf("Column %d deleted", d.ColumnID) }
