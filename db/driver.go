package db

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Driver interface
// ─────────────────────────────────────────────────────────────────────────────

// Driver encapsulates database-specific behaviour:
//   - building a DSN from structured options
//   - registering the database/sql driver (idempotent)
//   - providing a driver-specific ErrorMapper
type Driver interface {
	// Name returns the name passed to sql.Register, e.g. "odbc".
	Name() string

	// DSN converts structured options into a driver DSN string.
	DSN(opts DriverOptions) (string, error)

	// ErrorMapper returns a mapper tuned to this driver's error types.
	ErrorMapper() ErrorMapper

	// Register ensures the driver is registered with database/sql.
	Register()
}

// Naming selects how unqualified object names are resolved on IBM i.
type Naming int

const (
	// SQLNaming resolves MYLIB.MYFILE against the default schema.
	SQLNaming Naming = iota
	// SystemNaming resolves MYLIB/MYFILE and searches the library list.
	SystemNaming
)

// DriverOptions carries connection parameters in a driver-agnostic form.
type DriverOptions struct {
	// Host is the IBM i system name or address.
	Host     string
	Port     int
	User     string
	Password string
	// Database is the default schema (SQL naming) or, for SQLite, the file path.
	Database string
	// Libraries is the library list used with system naming.
	Libraries []string
	Naming    Naming
	// Extra holds driver-specific keywords, appended in sorted key order.
	Extra map[string]string
}

// SortedExtra returns the Extra keys in a stable order.
func (o DriverOptions) SortedExtra() []string {
	return slices.Sorted(maps.Keys(o.Extra))
}

// ─────────────────────────────────────────────────────────────────────────────
// Driver registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver adds a Driver to the registry.
// Panics if a driver with the same name is already registered.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Name()]; ok {
		panic(fmt.Sprintf("ibmi/db: driver %q already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// ReplaceDriver upserts a driver in the registry.
func ReplaceDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver by name.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("ibmi/db: driver %q not registered", name)
	}
	return d, nil
}

// OpenWithDriver opens a DB through a registered Driver and structured
// options, installing the driver's error mapper ahead of the default one.
//
//	d, err := db.OpenWithDriver("odbc", db.DriverOptions{
//	    Host: "pub400.com", User: "ME", Password: "secret",
//	    Naming: db.SystemNaming, Libraries: []string{"MYLIB", "QGPL"},
//	}, db.Config{Logger: logger})
func OpenWithDriver(driverName string, driverOpts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}
	drv.Register()

	dsn, err := drv.DSN(driverOpts)
	if err != nil {
		return nil, fmt.Errorf("ibmi/db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn

	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	d.SetErrorMapper(ChainMapper(drv.ErrorMapper(), DefaultErrorMapper()))
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite adapter (local mirrors and tests)
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver is the mattn/go-sqlite3 adapter.
// Import _ "github.com/mattn/go-sqlite3" alongside this to activate.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string { return "sqlite3" }

func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3 driver: Database (file path) is required")
	}
	keys := o.SortedExtra()
	if len(keys) == 0 {
		return o.Database, nil
	}
	params := make([]string, 0, len(keys))
	for _, k := range keys {
		params = append(params, k+"="+o.Extra[k])
	}
	return o.Database + "?" + strings.Join(params, "&"), nil
}

func (SQLiteDriver) ErrorMapper() ErrorMapper { return DefaultErrorMapper() }
func (SQLiteDriver) Register()                {}

func init() {
	RegisterDriver(SQLiteDriver{})
}
