// Package db is a thin, SQL-first wrapper around database/sql for IBM i
// (DB2 for i) work. It is NOT an ORM and adds no pooling policy, retries or
// transactions: every call borrows one connection, runs one statement and
// gives the connection back.
//
// What it does add is uniform error mapping, statement hooks, an injected
// structured logger, buffered result tables, stored-procedure calls and CL
// command execution through QSYS.QCMDEXC.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Config
// ─────────────────────────────────────────────────────────────────────────────

// Config holds the options for opening a DB.
type Config struct {
	// DSN is the driver-specific data-source name.
	DSN string

	// DriverName is the database/sql driver name, e.g. "odbc" or "sqlite3".
	DriverName string

	// Default statement timeout applied when the context has no deadline.
	// Zero means no default timeout.
	DefaultTimeout time.Duration

	// Logger receives connection, command and hook diagnostics.
	// Defaults to slog.Default() at Open time.
	Logger *slog.Logger

	// Hooks executed around every statement (logging, metrics).
	// Nil entries are skipped.
	Hooks []Hook
}

// ─────────────────────────────────────────────────────────────────────────────
// DB
// ─────────────────────────────────────────────────────────────────────────────

// DB wraps *sql.DB. It is safe for concurrent use; each operation runs on
// its own connection, opened for the call and released when it returns.
type DB struct {
	sqldb  *sql.DB
	cfg    Config
	logger *slog.Logger
	hooks  hookChain
	errMap ErrorMapper
}

// Open opens the database described by cfg and verifies connectivity with Ping.
// Callers must Close the DB when done.
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("ibmi/db: DSN must not be empty")
	}
	if cfg.DriverName == "" {
		return nil, fmt.Errorf("ibmi/db: DriverName must not be empty")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("ibmi/db: open: %w", err)
	}

	d := &DB{
		sqldb:  sqldb,
		cfg:    cfg,
		logger: logger,
		hooks:  newHookChain(cfg.Hooks, logger),
		errMap: DefaultErrorMapper(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ibmi/db: ping: %w", d.mapErr(err))
	}

	logger.Debug("ibmi/db: connected", slog.String("driver", cfg.DriverName))
	return d, nil
}

// MustOpen is like Open but panics on error.
func MustOpen(cfg Config) *DB {
	d, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Raw returns the underlying *sql.DB.
func (d *DB) Raw() *sql.DB { return d.sqldb }

// Logger returns the logger the DB was configured with.
func (d *DB) Logger() *slog.Logger { return d.logger }

// SetErrorMapper replaces the error mapper, e.g. with a driver-specific one.
func (d *DB) SetErrorMapper(m ErrorMapper) { d.errMap = m }

// Close closes the database handle. Safe to call multiple times.
func (d *DB) Close() error { return d.sqldb.Close() }

// Ping verifies that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return d.mapErr(d.sqldb.PingContext(ctx))
}

// Stats returns database/sql handle statistics.
func (d *DB) Stats() sql.DBStats { return d.sqldb.Stats() }

// ─────────────────────────────────────────────────────────────────────────────
// Statement execution
// ─────────────────────────────────────────────────────────────────────────────

// Exec executes a statement that returns no rows (INSERT, UPDATE, DELETE, DDL).
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := d.run(ctx, query, args, func(ctx context.Context, c *sql.Conn) error {
		var err error
		res, err = c.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// QueryEach runs query and calls fn for every row. The rows are only valid
// inside fn; the connection is released when QueryEach returns.
func (d *DB) QueryEach(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	return d.run(ctx, query, args, func(ctx context.Context, c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			if err := fn(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// QueryRow prepares a single-row query. Nothing is sent to the database
// until Scan is called.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	return &Row{db: d, ctx: ctx, query: query, args: args}
}

// GetData runs query and buffers every row into a Table.
func (d *DB) GetData(ctx context.Context, query string, args ...any) (*Table, error) {
	var t *Table
	err := d.run(ctx, query, args, func(ctx context.Context, c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		t, err = fill(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

// run brackets fn with connection open/close, default timeout, hooks and
// error mapping. The returned error is always mapped.
func (d *DB) run(ctx context.Context, query string, args []any, fn func(context.Context, *sql.Conn) error) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	d.hooks.Before(ctx, query, args)

	err := d.withConn(ctx, func(c *sql.Conn) error { return fn(ctx, c) })
	err = d.mapErr(err)

	d.hooks.After(ctx, query, args, time.Since(start), err)
	return err
}

func (d *DB) withConn(ctx context.Context, fn func(*sql.Conn) error) (err error) {
	c, err := d.sqldb.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg.DefaultTimeout == 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.DefaultTimeout)
}

func (d *DB) mapErr(err error) error {
	if err == nil {
		return nil
	}
	return d.errMap.Map(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row
// ─────────────────────────────────────────────────────────────────────────────

// Row is a deferred single-row query. Scan runs it.
type Row struct {
	db    *DB
	ctx   context.Context
	query string
	args  []any
}

// Scan runs the query and copies the first row into dest.
// ErrNotFound is returned when no row matches.
func (r *Row) Scan(dest ...any) error {
	return r.db.run(r.ctx, r.query, r.args, func(ctx context.Context, c *sql.Conn) error {
		return c.QueryRowContext(ctx, r.query, r.args...).Scan(dest...)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Querier
// ─────────────────────────────────────────────────────────────────────────────

// Querier is the surface repositories depend on.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
	QueryEach(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error
	GetData(ctx context.Context, query string, args ...any) (*Table, error)
}

var _ Querier = (*DB)(nil)
