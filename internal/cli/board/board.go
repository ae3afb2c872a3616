package board

import (
	"github.com/spf13/cobra"
)

// BoardCmd returns the board parent command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ArchiveCmd())
	cmd.AddCommand(ShareCmd())
	cmd.AddCommand(DemoCmd())

	return cmd
}
