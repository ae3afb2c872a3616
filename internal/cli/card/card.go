package card

import (
	"github.com/spf13/cobra"
)

// CardCmd returns the card parent command
func CardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}
