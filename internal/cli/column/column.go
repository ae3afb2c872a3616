package column

import (
	"github.com/spf13/cobra"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage columns",
		Long: `Create, delete and reorder the columns of a board.

Column positions are 1-based and always contiguous: moving or deleting
a column renumbers the ones after it.`,
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}
