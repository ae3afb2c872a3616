package use

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// BoardCmd returns the use board subcommand
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [board-id]",
		Short: "Set board context for current shell session",
		Long: `Set the current board using an environment variable.
This command outputs shell commands that should be evaluated:

  eval $(pasoboard use board 3)        # Use board 3
  eval $(pasoboard use board --clear)  # Clear board context
  pasoboard use board --show           # Show current board

PASOBOARD_BOARD is set in the current shell session only. The --board
flag on other commands takes precedence over it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseBoard,
	}

	cmd.Flags().Bool("clear", false, "Clear the current board context")
	cmd.Flags().Bool("show", false, "Show the current board context")

	return cmd
}

func runUseBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if showFlag {
		return showCurrentBoard(cmd)
	}

	if clearFlag {
		fmt.Fprintf(out, "unset %s\n", cli.BoardEnvVar)
		fmt.Fprintln(errOut, "Cleared board context")
		return nil
	}

	if len(args) == 0 {
		return formatter.Fail(&cli.UsageError{Message: "board ID required\nUsage: eval $(pasoboard use board <board-id>)"})
	}
	boardID, err := strconv.Atoi(args[0])
	if err != nil || boardID <= 0 {
		return formatter.Fail(&cli.UsageError{Message: fmt.Sprintf("invalid board ID: %s", args[0])})
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	snap, err := cliInstance.Client.FetchBoard(ctx, types.BoardID(boardID))
	if err != nil {
		return formatter.Fail(err)
	}

	fmt.Fprintf(out, "export %s=%d\n", cli.BoardEnvVar, boardID)
	fmt.Fprintf(errOut, "Now using board %d: %s\n", boardID, snap.Board.Name)
	return nil
}

func showCurrentBoard(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	if os.Getenv(cli.BoardEnvVar) == "" {
		fmt.Fprintln(out, "No board context set")
		fmt.Fprintln(out, "Use 'eval $(pasoboard use board <board-id>)' to set one")
		return nil
	}

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		fmt.Fprintf(out, "Invalid board context: %s\n", os.Getenv(cli.BoardEnvVar))
		return nil
	}

	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return err
	}

	snap, err := cliInstance.Client.FetchBoard(cmd.Context(), boardID)
	if err != nil {
		fmt.Fprintf(out, "Current board: %d (not reachable)\n", boardID)
		return nil
	}

	fmt.Fprintf(out, "Current board: %d (%s)\n", boardID, snap.Board.Name)
	return nil
}
