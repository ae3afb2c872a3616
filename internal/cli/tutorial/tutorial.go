package tutorial

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
)

//go:embed tutorial.md
var tutorialContent string

// TutorialCmd returns the tutorial command
func TutorialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Print the pasoboard workflow guide",
		Long: `Print a short markdown guide covering serving, selecting a board,
moving cards and columns, and following changes.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), tutorialContent)
		},
	}
	return cmd
}
