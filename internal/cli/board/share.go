package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// ShareCmd returns the board share subcommand
func ShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Grant a user a role on a board",
		Long: `Grant a user a role on a board. Roles: owner, admin, member, viewer.
Viewers can watch a board but not reorder it.

Examples:
  pasoboard board share --board 1 --user 7 --role member
`,
		RunE: runShare,
	}

	cli.AddBoardFlag(cmd)
	cmd.Flags().Int("user", 0, "User ID (required)")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("role", string(models.RoleMember), "Role to grant")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	userID, _ := cmd.Flags().GetInt("user")
	role, _ := cmd.Flags().GetString("role")

	boardID, err := cli.BoardID(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return formatter.Fail(&cli.UsageError{Message: fmt.Sprintf("invalid role %q (must be: owner, admin, member, viewer)", role)})
	}

	m, err := cliInstance.Client.AddMember(ctx, boardID, types.UserID(userID), parsed)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(member{*m})
}

type member struct {
	models.Member
}

func (m member) GetID() int { return m.UserID.ToInt() }

func (m member) Human() string {
	return fmt.Sprintf("User %d is now %s on board %d", m.UserID, m.Role, m.BoardID)
}
