package card

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
	"github.com/thenoetrevino/pasoboard/internal/types"
	"github.com/thenoetrevino/pasoboard/internal/user"
)

const dueDateLayout = "2006-01-02"

// CreateCmd returns the card create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append a card to a column",
		Long: `Append a card to the bottom of a column.

Examples:
  pasoboard card create --column 2 --title "Fix login"
  pasoboard card create --column 2 --title "Fix login" --priority high --mine
  pasoboard card create --column 2 --title "Ship" --assignee alice --due 2026-11-01

  # Quiet mode for bash capture
  CARD_ID=$(pasoboard card create --column 2 --title "Fix login" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().Int("column", 0, "Column ID (required)")
	cmd.Flags().String("title", "", "Card title (required)")
	cmd.Flags().String("assignee", "", "Assignee name")
	cmd.Flags().Bool("mine", false, "Assign the card to the current user")
	cmd.Flags().String("priority", "none", "Priority: "+priorityNames())
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("assignee", "mine")
	for _, name := range []string{"column", "title"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			slog.Error("failed to mark flag as required", "error", err)
		}
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	columnID, _ := cmd.Flags().GetInt("column")

	in, err := newCardFromFlags(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	created, err := cliInstance.Client.CreateCard(ctx, types.ColumnID(columnID), in)
	if err != nil {
		return formatter.Fail(err)
	}

	return formatter.Success(createdCard{*created})
}

func newCardFromFlags(cmd *cobra.Command) (syncclient.NewCard, error) {
	title, _ := cmd.Flags().GetString("title")
	assignee, _ := cmd.Flags().GetString("assignee")
	mine, _ := cmd.Flags().GetBool("mine")
	priorityName, _ := cmd.Flags().GetString("priority")
	due, _ := cmd.Flags().GetString("due")

	in := syncclient.NewCard{Title: title, Assignee: assignee}
	if mine {
		in.Assignee = user.Name()
	}

	priority, ok := models.PriorityByName(priorityName)
	if !ok {
		return in, &cli.UsageError{Message: fmt.Sprintf("unknown priority %q, want one of: %s", priorityName, priorityNames())}
	}
	in.Priority = priority.ID

	if due != "" {
		t, err := time.Parse(dueDateLayout, due)
		if err != nil {
			return in, &cli.UsageError{Message: fmt.Sprintf("invalid due date %q, want YYYY-MM-DD", due)}
		}
		in.DueDate = &t
	}
	return in, nil
}

func priorityNames() string {
	names := make([]string, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		names = append(names, p.Description)
	}
	return strings.Join(names, ", ")
}

type createdCard struct {
	models.Card
}

func (c createdCard) GetID() int { return c.ID.ToInt() }

func (c createdCard) Human() string {
	return fmt.Sprintf("Card '%s' created (ID: %d, position %d)", c.Title, c.ID, c.Position)
}
