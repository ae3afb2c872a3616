// Package database handles the connection to the board store (SQLite by
// default, PostgreSQL through pgx) and all position-bearing writes.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath returns ~/.pasoboard/pasoboard.db, creating the directory
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".pasoboard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	return filepath.Join(dir, "pasoboard.db"), nil
}

// InitDB opens the store for driver ("sqlite" or "postgres"), applies the
// connection settings for that engine and runs migrations.
func InitDB(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, 0, err
	}

	if dialect == SQLite && dsn == "" {
		dsn, err = DefaultSQLitePath()
		if err != nil {
			return nil, 0, err
		}
	}
	if dsn == "" {
		return nil, 0, fmt.Errorf("%w: %s requires a dsn", ErrInvalidConfig, driver)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open database: %w", err)
	}

	closeOnErr := func(err error) (*sql.DB, Dialect, error) {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, 0, err
	}

	switch dialect {
	case SQLite:
		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",   // required for CASCADE deletions
			"PRAGMA journal_mode = WAL",  // readers do not block the writer
			"PRAGMA busy_timeout = 5000", // SQLite retries for this many ms
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
				return closeOnErr(err)
			}
		}
		// SQLite benefits from a single writer connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

	case Postgres:
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(20)
	}

	if err := db.PingContext(ctx); err != nil {
		return closeOnErr(fmt.Errorf("database ping failed: %w", err))
	}

	if err := runMigrations(ctx, db, dialect); err != nil {
		return closeOnErr(fmt.Errorf("failed to run migrations: %w", err))
	}

	slog.Info("database ready", "driver", dialect.String())
	return db, dialect, nil
}
