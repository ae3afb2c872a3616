package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidConfig indicates an unusable driver or dsn
var ErrInvalidConfig = errors.New("invalid database configuration")

// Dialect selects SQL differences between the supported engines
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ParseDialect maps a configured driver name to a Dialect
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, driver)
	}
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// driverName is the database/sql driver registered for the dialect
func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $1, $2... for PostgreSQL.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// autoID is the column definition of an auto-incrementing primary key
func (d Dialect) autoID() string {
	if d == Postgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
