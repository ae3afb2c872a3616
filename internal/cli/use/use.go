// Package use holds cli commands that set shell-session context
// e.g., pasoboard use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings for the current shell",
		Long: `Set context that applies to subsequent commands, so flags
like --board do not have to be repeated.

Examples:
  eval $(pasoboard use board 3)       # Use board 3
  eval $(pasoboard use board --clear) # Clear board context
  pasoboard use board --show          # Show current board`,
	}

	cmd.AddCommand(BoardCmd())

	return cmd
}
