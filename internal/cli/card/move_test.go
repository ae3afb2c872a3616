package card

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/testutil"
	"github.com/thenoetrevino/pasoboard/internal/testutil/clitest"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

func TestMoveCard_AcrossColumnsByName(t *testing.T) {
	env := clitest.Setup(t, 3, 2)
	board := fmt.Sprint(env.Seeded.Board.ID)
	a1, a2, a3 := env.Seeded.Cards[0][0].ID, env.Seeded.Cards[0][1].ID, env.Seeded.Cards[0][2].ID
	b1, b2 := env.Seeded.Cards[1][0].ID, env.Seeded.Cards[1][1].ID

	out, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", board, "--id", fmt.Sprint(a2), "--column", "col2", "--to", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "moved to 'Col2' at position 2")

	assert.Equal(t, []types.CardID{a1, a3}, env.CardOrder(t, 0))
	assert.Equal(t, []types.CardID{b1, a2, b2}, env.CardOrder(t, 1))
}

func TestMoveCard_WithinColumnJSON(t *testing.T) {
	env := clitest.Setup(t, 3)
	c1, c2, c3 := env.Seeded.Cards[0][0].ID, env.Seeded.Cards[0][1].ID, env.Seeded.Cards[0][2].ID

	out, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", fmt.Sprint(c3), "--to", "1", "--json")
	require.NoError(t, err)

	result := testutil.ParseJSON(t, out)
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.Equal(t, "card", data["kind"])
	assert.Equal(t, float64(1), data["position"])
	assert.Equal(t, true, data["moved"])

	assert.Equal(t, []types.CardID{c3, c1, c2}, env.CardOrder(t, 0))
}

func TestMoveCard_OverCardInOtherColumn(t *testing.T) {
	env := clitest.Setup(t, 1, 2)
	a1 := env.Seeded.Cards[0][0].ID
	b1, b2 := env.Seeded.Cards[1][0].ID, env.Seeded.Cards[1][1].ID

	out, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", fmt.Sprint(a1), "--to", fmt.Sprintf("over:%d", b2), "--quiet")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", a1), out)

	assert.Empty(t, env.CardOrder(t, 0))
	assert.Equal(t, []types.CardID{b1, a1, b2}, env.CardOrder(t, 1))
}

func TestMoveCard_Failures(t *testing.T) {
	env := clitest.Setup(t, 2)
	board := fmt.Sprint(env.Seeded.Board.ID)
	card := fmt.Sprint(env.Seeded.Cards[0][1].ID)
	before := env.CardOrder(t, 0)

	tests := []struct {
		name     string
		actor    types.UserID
		args     []string
		exitCode int
		stderr   string
	}{
		{
			name:     "viewer",
			actor:    clitest.Viewer,
			args:     []string{"--board", board, "--id", card, "--to", "1"},
			exitCode: cli.ExitForbidden,
			stderr:   "not allowed to reorder",
		},
		{
			name:     "unknown column",
			actor:    clitest.Member,
			args:     []string{"--board", board, "--id", card, "--column", "Done"},
			exitCode: cli.ExitNotFound,
			stderr:   "Available columns: Col1",
		},
		{
			name:     "unknown card",
			actor:    clitest.Member,
			args:     []string{"--board", board, "--id", "999"},
			exitCode: cli.ExitNotFound,
			stderr:   "card 999",
		},
		{
			name:     "bad drop",
			actor:    clitest.Member,
			args:     []string{"--board", board, "--id", card, "--to", "top"},
			exitCode: cli.ExitUsage,
			stderr:   "invalid drop target",
		},
		{
			name:     "not a member",
			actor:    99,
			args:     []string{"--board", board, "--id", card},
			exitCode: cli.ExitForbidden,
			stderr:   "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := env.Run(t, tt.actor, MoveCmd(), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, cli.ExitCodeFor(err))
			assert.Contains(t, stderr, tt.stderr)
		})
	}

	assert.Equal(t, before, env.CardOrder(t, 0))
}

func TestMoveCard_ArchivedBoard(t *testing.T) {
	env := clitest.Setup(t, 2)
	require.NoError(t, env.App.BoardService.SetArchived(context.Background(), testutil.Owner, env.Seeded.Board.ID, true))

	_, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", fmt.Sprint(env.Seeded.Cards[0][1].ID), "--to", "1")
	assert.Equal(t, cli.ExitForbidden, cli.ExitCodeFor(err))
}

func TestCreateCard(t *testing.T) {
	env := clitest.Setup(t, 2)

	out, _, err := env.Run(t, clitest.Member, CreateCmd(),
		"--column", fmt.Sprint(env.Seeded.Columns[0].ID), "--title", "Write docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Card 'Write docs' created")
	assert.Contains(t, out, "position 3")

	_, stderr, err := env.Run(t, clitest.Viewer, CreateCmd(),
		"--column", fmt.Sprint(env.Seeded.Columns[0].ID), "--title", "Nope")
	require.Error(t, err)
	assert.Equal(t, cli.ExitForbidden, cli.ExitCodeFor(err))
	assert.Contains(t, stderr, "Error:")
}

func TestCreateCard_WithMetadata(t *testing.T) {
	env := clitest.Setup(t, 0)
	t.Setenv("PASOBOARD_ASSIGNEE", "dana")

	out, _, err := env.Run(t, clitest.Member, CreateCmd(),
		"--column", fmt.Sprint(env.Seeded.Columns[0].ID), "--title", "Ship it",
		"--priority", "High", "--mine", "--due", "2026-11-01", "--quiet")
	require.NoError(t, err)

	var id int
	_, err = fmt.Sscan(out, &id)
	require.NoError(t, err)

	card, err := env.App.Repo.GetCard(context.Background(), types.CardID(id))
	require.NoError(t, err)
	assert.Equal(t, "dana", card.Assignee)
	assert.Equal(t, 3, card.Priority)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, 2026, card.DueDate.Year())
	assert.Equal(t, 1, card.Position)
}

func TestCreateCard_BadFlags(t *testing.T) {
	env := clitest.Setup(t, 0)
	column := fmt.Sprint(env.Seeded.Columns[0].ID)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown priority", []string{"--priority", "urgent"}},
		{"bad due date", []string{"--due", "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--column", column, "--title", "x"}, tt.args...)
			_, _, err := env.Run(t, clitest.Member, CreateCmd(), args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCodeFor(err))
		})
	}
}
