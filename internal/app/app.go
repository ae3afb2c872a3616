package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/daemon"
	"github.com/thenoetrevino/pasoboard/internal/database"
	"github.com/thenoetrevino/pasoboard/internal/server"
	"github.com/thenoetrevino/pasoboard/internal/services/board"
	"github.com/thenoetrevino/pasoboard/internal/services/reorder"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful HTTP shutdown
const shutdownTimeout = 5 * time.Second

// App holds all server-side services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	cfg *config.Config
	db  *sql.DB

	// Repository layer (direct database access)
	Repo *database.Repository

	// Realtime fan-out
	Broker daemon.Broker
	Hub    *daemon.Hub

	// Service layer (business logic)
	BoardService   board.Service
	ReorderService reorder.Service

	server *server.Server
}

// New opens the store and wires every service.
// The broker is Redis when cfg.Events.RedisURL is set, in-process otherwise.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	options := appConfig{hubOptions: daemon.DefaultOptions()}
	if cfg.Events.Buffer > 0 {
		options.hubOptions.BroadcastBuffer = cfg.Events.Buffer
	}
	for _, opt := range opts {
		opt(&options)
	}

	db, dialect, err := database.InitDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	broker := options.broker
	if broker == nil {
		broker, err = newBroker(cfg)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	repo := database.NewRepository(db, dialect)
	hub := daemon.NewHub(broker, options.hubOptions)
	boards := board.NewService(repo, hub)
	reorders := reorder.NewService(repo, boards, hub)

	return &App{
		cfg:            cfg,
		db:             db,
		Repo:           repo,
		Broker:         broker,
		Hub:            hub,
		BoardService:   boards,
		ReorderService: reorders,
		server:         server.New(boards, reorders, hub, repo),
	}, nil
}

func newBroker(cfg *config.Config) (daemon.Broker, error) {
	if cfg.Events.RedisURL == "" {
		return daemon.NewLocalBroker(cfg.Events.Buffer), nil
	}
	broker, err := daemon.NewRedisBroker(cfg.Events.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event broker: %w", err)
	}
	slog.Info("using redis event broker")
	return broker, nil
}

// Handler returns the HTTP handler serving the API and websockets
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run listens on the configured address until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the hub and the HTTP server on ln until ctx is cancelled or
// either of them fails
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Hub.Start(gctx)
	})

	g.Go(func() error {
		slog.Info("http server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return a.Hub.Shutdown()
	})

	return g.Wait()
}

// Close releases the broker and the database
func (a *App) Close() error {
	var errs []error
	if err := a.Broker.Close(); err != nil && !errors.Is(err, daemon.ErrBrokerClosed) {
		errs = append(errs, fmt.Errorf("close broker: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
