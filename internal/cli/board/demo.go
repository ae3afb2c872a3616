package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/syncclient"
)

// demoColumns is the sample board layout, column name to card titles
var demoColumns = []struct {
	name  string
	cards []string
}{
	{"Todo", []string{"Write release notes", "Triage bug reports", "Plan sprint review"}},
	{"In Progress", []string{"Drag and drop polish", "Postgres migration"}},
	{"Done", []string{"Set up CI"}},
}

// DemoCmd returns the board demo subcommand
func DemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create a board filled with sample columns and cards",
		Long: `Create a board with Todo, In Progress and Done columns and a few
sample cards to try moves against.

Examples:
  BOARD_ID=$(pasoboard board demo --quiet)
  pasoboard card move --board $BOARD_ID --id 1 --column done
`,
		RunE: runDemo,
	}

	cmd.Flags().String("name", "Demo", "Board name")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	name, _ := cmd.Flags().GetString("name")

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	client := cliInstance.Client

	b, err := client.CreateBoard(ctx, name)
	if err != nil {
		return formatter.Fail(err)
	}

	result := demoResult{Board: *b}
	for _, spec := range demoColumns {
		col, err := client.CreateColumn(ctx, b.ID, spec.name)
		if err != nil {
			return formatter.Fail(fmt.Errorf("failed to create column %q: %w", spec.name, err))
		}
		result.Columns++

		for _, title := range spec.cards {
			if _, err := client.CreateCard(ctx, col.ID, syncclient.NewCard{Title: title}); err != nil {
				return formatter.Fail(fmt.Errorf("failed to create card %q: %w", title, err))
			}
			result.Cards++
		}
	}

	return formatter.Success(result)
}

type demoResult struct {
	Board   models.Board `json:"board"`
	Columns int          `json:"columns"`
	Cards   int          `json:"cards"`
}

func (r demoResult) GetID() int { return r.Board.ID.ToInt() }

func (r demoResult) Human() string {
	return fmt.Sprintf("Board '%s' created (ID: %d) with %d columns and %d cards", r.Board.Name, r.Board.ID, r.Columns, r.Cards)
}
