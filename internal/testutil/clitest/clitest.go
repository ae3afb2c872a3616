// Package clitest runs CLI commands against a real server backed by an
// in-memory database.
package clitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/app"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/daemon"
	"github.com/thenoetrevino/pasoboard/internal/models"
	"github.com/thenoetrevino/pasoboard/internal/testutil"
	"github.com/thenoetrevino/pasoboard/internal/types"
)

// Users seeded on every board besides testutil.Owner
const (
	Member types.UserID = 2
	Viewer types.UserID = 3
)

// Env is a running server with a seeded board
type Env struct {
	URL    string
	App    *app.App
	Seeded testutil.SeededBoard
}

// Setup starts a server and seeds a board with one column per entry of
// cardsPerColumn
func Setup(t *testing.T, cardsPerColumn ...int) *Env {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"

	hubOpts := daemon.DefaultOptions()
	hubOpts.PingInterval = time.Hour

	a, err := app.New(context.Background(), cfg, app.WithHubOptions(hubOpts))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = a.Hub.Start(ctx) }()
	t.Cleanup(func() { _ = a.Hub.Shutdown() })

	seeded := testutil.SeedBoard(t, a.Repo, cardsPerColumn...)
	testutil.AddMember(t, a.Repo, seeded.Board.ID, Member, models.RoleMember)
	testutil.AddMember(t, a.Repo, seeded.Board.ID, Viewer, models.RoleViewer)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return &Env{URL: srv.URL, App: a, Seeded: seeded}
}

// CLI returns a CLI acting as actor against the env's server
func (e *Env) CLI(actor types.UserID) *cli.CLI {
	cfg := &config.Config{}
	cfg.Client.BaseURL = e.URL
	cfg.Client.UserID = actor.ToInt()
	cfg.Client.SyncTimeout = 2 * time.Second
	return cli.New(cfg)
}

// Run executes cmd as actor and returns its output streams
func (e *Env) Run(t *testing.T, actor types.UserID, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	ctx := cli.WithCLI(context.Background(), e.CLI(actor))
	return testutil.ExecuteCommand(t, ctx, cmd, args...)
}

// CardOrder returns the ids of the cards in the env's i-th seeded column as stored
func (e *Env) CardOrder(t *testing.T, i int) []types.CardID {
	t.Helper()

	cards, err := e.App.Repo.GetCardsByBoard(context.Background(), e.Seeded.Board.ID)
	if err != nil {
		t.Fatalf("Failed to read cards: %v", err)
	}

	var ids []types.CardID
	for _, c := range cards {
		if c.ColumnID == e.Seeded.Columns[i].ID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
