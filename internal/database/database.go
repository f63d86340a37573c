// Package database is the storage execution client: it runs parameterized
// statement text produced by sqlgen and hands raw rows back to the engine.
// It deliberately carries no retry, timeout, or cancellation policy beyond
// honoring the caller's context.
package database

import (
	"context"

	"github.com/pizdarikihq/teable/internal/sqlgen"
)

// Row is one fetched row keyed by physical column name. The engine works
// without a compile-time schema, so rows stay dynamic until the snapshot
// assembler reshapes them.
type Row map[string]any

// Session executes statements within some scope: a pooled connection or an
// open transaction. Reads composed inside a larger transaction take the
// enclosing Session so they observe a consistent view.
type Session interface {
	// Query runs a statement and returns all rows.
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)

	// Exec runs a statement and returns the affected row count.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// Client is a backend handle. WithinTx brackets fn in one transaction,
// committing on nil and rolling back on error; conflicting transactions are
// serialized by the backend's isolation, not by in-memory locking.
type Client interface {
	Session

	Dialect() sqlgen.Dialect

	WithinTx(ctx context.Context, fn func(Session) error) error

	Close() error
}

// Config holds database configuration
type Config struct {
	Driver         string `mapstructure:"driver"` // postgres, sqlite
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Name           string `mapstructure:"name"`
	Path           string `mapstructure:"path"` // sqlite file path
	MigrationsPath string `mapstructure:"migrationspath"`
}
