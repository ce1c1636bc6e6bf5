package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when a single-row query matches no rows.
	ErrNotFound = errors.New("ibmi/db: record not found")

	// ErrDuplicateKey is returned on unique constraint violations.
	ErrDuplicateKey = errors.New("ibmi/db: duplicate key")

	// ErrForeignKeyViolation is returned when a referential constraint is violated.
	ErrForeignKeyViolation = errors.New("ibmi/db: foreign key violation")

	// ErrCheckViolation is returned when a CHECK constraint is violated.
	ErrCheckViolation = errors.New("ibmi/db: check constraint violation")

	// ErrDeadlock is returned on deadlocks and record lock timeouts.
	ErrDeadlock = errors.New("ibmi/db: deadlock or lock timeout")

	// ErrTimeout is returned when a statement exceeds its deadline or is cancelled.
	ErrTimeout = errors.New("ibmi/db: statement timeout")

	// ErrConnectionFailed is returned when the driver cannot reach the system.
	ErrConnectionFailed = errors.New("ibmi/db: connection failed")

	// ErrObjectNotFound is returned when a table, view or procedure does not exist.
	ErrObjectNotFound = errors.New("ibmi/db: object not found")

	// ErrCommandFailed is returned when a CL command or external procedure
	// signals an escape message.
	ErrCommandFailed = errors.New("ibmi/db: command failed")
)

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool        { return errors.Is(err, ErrDuplicateKey) }
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
func IsCheckViolation(err error) bool      { return errors.Is(err, ErrCheckViolation) }
func IsDeadlock(err error) bool            { return errors.Is(err, ErrDeadlock) }
func IsTimeout(err error) bool             { return errors.Is(err, ErrTimeout) }
func IsConnectionFailed(err error) bool    { return errors.Is(err, ErrConnectionFailed) }
func IsObjectNotFound(err error) bool      { return errors.Is(err, ErrObjectNotFound) }
func IsCommandFailed(err error) bool       { return errors.Is(err, ErrCommandFailed) }

// ─────────────────────────────────────────────────────────────────────────────
// DBError
// ─────────────────────────────────────────────────────────────────────────────

// DBError pairs a sentinel with the original driver error, so callers can
// test with errors.Is(err, ErrDuplicateKey) or dig into Cause.
type DBError struct {
	// Sentinel is one of the package-level Err* variables.
	Sentinel error
	// Cause is the original driver error.
	Cause error
	// Message is an optional hint, e.g. the CL command that failed.
	Message string
}

func (e *DBError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Sentinel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// ─────────────────────────────────────────────────────────────────────────────
// ErrorMapper
// ─────────────────────────────────────────────────────────────────────────────

// ErrorMapper translates raw driver errors into sentinel errors.
type ErrorMapper interface {
	Map(err error) error
}

// ErrorMapperFunc adapts a function to ErrorMapper.
type ErrorMapperFunc func(error) error

func (f ErrorMapperFunc) Map(err error) error { return f(err) }

// DefaultErrorMapper handles database/sql and context errors, lib/pq,
// go-sql-driver/mysql and SQLite. Driver adapters chain their own mapper in
// front of it.
func DefaultErrorMapper() ErrorMapper {
	return ErrorMapperFunc(defaultMap)
}

func defaultMap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	// already mapped
	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	var pqe *pq.Error
	if errors.As(err, &pqe) {
		if mapped := MapSQLState(string(pqe.Code), err); mapped != nil {
			return mapped
		}
		return err
	}

	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		if mapped := mapMySQLNumber(mye.Number, err); mapped != nil {
			return mapped
		}
		return err
	}

	if mapped := mapSQLiteError(err); mapped != nil {
		return mapped
	}
	return err
}

// MapSQLState maps an SQLSTATE to a *DBError, or returns nil when the state
// has no sentinel. It knows DB2 for i as well as PostgreSQL states.
func MapSQLState(state string, cause error) error {
	switch state {
	case "23505":
		return &DBError{Sentinel: ErrDuplicateKey, Cause: cause}
	case "23503", "23504":
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: cause}
	case "23513", "23514":
		return &DBError{Sentinel: ErrCheckViolation, Cause: cause}
	case "40001", "40P01", "57033":
		return &DBError{Sentinel: ErrDeadlock, Cause: cause}
	case "57014", "HYT00", "HYT01":
		return &DBError{Sentinel: ErrTimeout, Cause: cause}
	case "42704", "42P01", "42S02", "42884":
		return &DBError{Sentinel: ErrObjectNotFound, Cause: cause}
	case "38501", "38000":
		return &DBError{Sentinel: ErrCommandFailed, Cause: cause}
	}
	if strings.HasPrefix(state, "08") {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: cause}
	}
	return nil
}

func mapMySQLNumber(n uint16, cause error) error {
	switch n {
	case 1062: // ER_DUP_ENTRY
		return &DBError{Sentinel: ErrDuplicateKey, Cause: cause}
	case 1452, 1216, 1217:
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: cause}
	case 3819: // ER_CHECK_CONSTRAINT_VIOLATED
		return &DBError{Sentinel: ErrCheckViolation, Cause: cause}
	case 1213, 1205:
		return &DBError{Sentinel: ErrDeadlock, Cause: cause}
	case 3024:
		return &DBError{Sentinel: ErrTimeout, Cause: cause}
	case 1146:
		return &DBError{Sentinel: ErrObjectNotFound, Cause: cause}
	case 1045, 2002, 2003, 2006, 2013:
		return &DBError{Sentinel: ErrConnectionFailed, Cause: cause}
	}
	return nil
}

// SQLite does not export typed errors through database/sql consistently.
func mapSQLiteError(err error) error {
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
	case strings.Contains(s, "FOREIGN KEY constraint failed"):
		return &DBError{Sentinel: ErrForeignKeyViolation, Cause: err}
	case strings.Contains(s, "CHECK constraint failed"):
		return &DBError{Sentinel: ErrCheckViolation, Cause: err}
	case strings.Contains(s, "database is locked"):
		return &DBError{Sentinel: ErrDeadlock, Cause: err}
	case strings.Contains(s, "no such table"):
		return &DBError{Sentinel: ErrObjectNotFound, Cause: err}
	}
	return nil
}

// ChainMapper tries each mapper in order and returns the first result that
// differs from the input.
func ChainMapper(mappers ...ErrorMapper) ErrorMapper {
	return ErrorMapperFunc(func(err error) error {
		if err == nil {
			return nil
		}
		for _, m := range mappers {
			if mapped := m.Map(err); mapped != err {
				return mapped
			}
		}
		return err
	})
}
