package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
)

// ArchiveCmd returns the board archive subcommand
func ArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive a board, freezing its order",
		Long: `Archive a board. Archived boards reject every reorder until restored.

Examples:
  pasoboard board archive --board 1

  # Restore it
  pasoboard board archive --board 1 --restore
`,
		RunE: runArchive,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().Bool("restore", false, "Unarchive the board instead")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	restore, _ := cmd.Flags().GetBool("restore")

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if err := cliInstance.Client.SetArchived(ctx, boardID, !restore); err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(archiveResult{BoardID: boardID.ToInt(), Archived: !restore})
}

type archiveResult struct {
	BoardID  int  `json:"boardId"`
	Archived bool `json:"archived"`
}

func (r archiveResult) GetID() int { return r.BoardID }

func (r archiveResult) Human() string {
	if r.Archived {
		return fmt.Sprintf("Board %d archived", r.BoardID)
	}
	return fmt.Sprintf("Board %d restored", r.BoardID)
}
