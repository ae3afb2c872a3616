package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/pasoboard/internal/cli"
	"github.com/thenoetrevino/pasoboard/internal/cli/board"
	"github.com/thenoetrevino/pasoboard/internal/cli/card"
	"github.com/thenoetrevino/pasoboard/internal/cli/column"
	"github.com/thenoetrevino/pasoboard/internal/cli/serve"
	"github.com/thenoetrevino/pasoboard/internal/cli/styles"
	"github.com/thenoetrevino/pasoboard/internal/cli/tutorial"
	"github.com/thenoetrevino/pasoboard/internal/cli/use"
	"github.com/thenoetrevino/pasoboard/internal/cli/watch"
	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/logging"
)

// NewRootCmd builds the pasoboard command tree
func NewRootCmd() *cobra.Command {
	var logCloser io.Closer

	root := &cobra.Command{
		Use:   "pasoboard",
		Short: "Pasoboard - a shared kanban board",
		Long: `Pasoboard is a kanban board server with a terminal client.
Cards and columns are reordered optimistically and kept in sync with
everyone watching the same board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logCloser, err = logging.Init(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return err
			}
			styles.Init(cfg.Theme)

			cmd.SetContext(cli.WithCLI(cmd.Context(), cli.New(cfg)))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser == nil {
				return
			}
			if err := logCloser.Close(); err != nil {
				slog.Error("failed to close log file", "error", err)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default is $XDG_CONFIG_HOME/pasoboard/config.yaml)")
	flags.String("base-url", "", "Server URL")
	flags.Int("user", 0, "Act as this user ID")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", `Log file, or "stderr"`)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &cli.UsageError{Message: err.Error()}
	})

	root.AddCommand(board.BoardCmd())
	root.AddCommand(column.ColumnCmd())
	root.AddCommand(card.CardCmd())
	root.AddCommand(watch.WatchCmd())
	root.AddCommand(serve.ServeCmd())
	root.AddCommand(use.UseCmd())
	root.AddCommand(tutorial.TutorialCmd())

	return root
}

// loadConfig reads the config file and applies the persistent flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("base-url") {
		cfg.Client.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("user") {
		cfg.Client.UserID, _ = flags.GetInt("user")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	return cfg, nil
}

// Execute runs the command line with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
