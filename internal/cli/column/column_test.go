package column

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

func columnIDs(t *testing.T, env *clitest.Env) []types.ColumnID {
	t.Helper()
	columns, err := env.App.Repo.GetColumnsByBoard(context.Background(), env.Seeded.Board.ID)
	require.NoError(t, err)

	ids := make([]types.ColumnID, 0, len(columns))
	for _, c := range columns {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCreateColumn(t *testing.T) {
	env := clitest.Setup(t, 0, 0)

	out, _, err := env.Run(t, testutil.Owner, CreateCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--name", "Review", "--json")
	require.NoError(t, err)

	result := testutil.ParseJSON(t, out)
	data := result["data"].(map[string]any)
	assert.Equal(t, "Review", data["name"])
	assert.Equal(t, float64(3), data["position"])
	assert.Len(t, columnIDs(t, env), 3)
}

func TestCreateColumn_EmptyName(t *testing.T) {
	env := clitest.Setup(t)

	_, _, err := env.Run(t, testutil.Owner, CreateCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--name", "  ")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
}

func TestMoveColumn(t *testing.T) {
	env := clitest.Setup(t, 0, 0, 0)
	c1, c2, c3 := env.Seeded.Columns[0].ID, env.Seeded.Columns[1].ID, env.Seeded.Columns[2].ID

	out, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", fmt.Sprint(c1), "--to", "end")
	require.NoError(t, err)
	assert.Contains(t, out, "Column 'Col1' moved to position 3")
	assert.Equal(t, []types.ColumnID{c2, c3, c1}, columnIDs(t, env))

	out, _, err = env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", fmt.Sprint(c1), "--to", fmt.Sprintf("over:%d", c2))
	require.NoError(t, err)
	assert.Contains(t, out, "moved to position 1")
	assert.Equal(t, []types.ColumnID{c1, c2, c3}, columnIDs(t, env))
}

func TestMoveColumn_UnknownColumn(t *testing.T) {
	env := clitest.Setup(t, 0, 0)

	_, _, err := env.Run(t, clitest.Member, MoveCmd(),
		"--board", fmt.Sprint(env.Seeded.Board.ID), "--id", "999", "--to", "1")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
}

func TestDeleteColumn(t *testing.T) {
	env := clitest.Setup(t, 0, 1, 0)
	c1, c2, c3 := env.Seeded.Columns[0].ID, env.Seeded.Columns[1].ID, env.Seeded.Columns[2].ID

	_, stderr, err := env.Run(t, testutil.Owner, DeleteCmd(), "--id", fmt.Sprint(c2))
	require.Error(t, err)
	assert.Equal(t, cli.ExitConflict, cli.ExitCodeFor(err))
	assert.Contains(t, stderr, "Suggestion:")

	out, _, err := env.Run(t, testutil.Owner, DeleteCmd(), "--id", fmt.Sprint(c1), "--quiet")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", c1), out)

	columns, err := env.App.Repo.GetColumnsByBoard(context.Background(), env.Seeded.Board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, c2, columns[0].ID)
	assert.Equal(t, 1, columns[0].Position)
	assert.Equal(t, c3, columns[1].ID)
	assert.Equal(t, 2, columns[1].Position)
}
