package serve

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/app"
	"github.com/thenoetrevino/pasoboard/internal/cli"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server",
		Long: `Run the HTTP API and the live event stream.

The database defaults to SQLite under ~/.pasoboard. Set --driver postgres
with a --dsn to use Postgres, and --redis to fan events out through Redis
so several servers can share one database.

Examples:
  pasoboard serve
  pasoboard serve --addr :8420 --driver postgres --dsn postgres://localhost/pasoboard
  pasoboard serve --redis redis://localhost:6379/0
`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address")
	cmd.Flags().String("driver", "", "Database driver (sqlite or postgres)")
	cmd.Flags().String("dsn", "", "Database DSN or file path")
	cmd.Flags().String("redis", "", "Redis URL for event fan-out")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return err
	}

	cfg := *cliInstance.Config
	overrides := map[string]*string{
		"addr":   &cfg.Server.Addr,
		"driver": &cfg.Database.Driver,
		"dsn":    &cfg.Database.DSN,
		"redis":  &cfg.Events.RedisURL,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}

	application, err := app.New(ctx, &cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("failed to close app", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver)
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
