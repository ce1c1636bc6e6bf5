package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stored procedures
// ─────────────────────────────────────────────────────────────────────────────

// CallProcedure calls a stored procedure that returns no result set.
//
// name is either a qualified procedure name ("MYLIB.UPDORD"), which is
// expanded to CALL MYLIB.UPDORD(?, ?, ...) with one marker per argument, or
// a complete statement that already starts with CALL.
func (d *DB) CallProcedure(ctx context.Context, name string, args ...any) error {
	_, err := d.Exec(ctx, CallStatement(name, len(args)), args...)
	return err
}

// CallStatement builds the CALL text used by CallProcedure.
func CallStatement(name string, nargs int) string {
	name = strings.TrimSpace(name)
	if len(name) >= 5 && strings.EqualFold(name[:5], "CALL ") {
		return name
	}
	if nargs == 0 {
		return "CALL " + name
	}
	return "CALL " + name + "(" + strings.TrimSuffix(strings.Repeat("?, ", nargs), ", ") + ")"
}

// ─────────────────────────────────────────────────────────────────────────────
// CL commands
// ─────────────────────────────────────────────────────────────────────────────

// RunCommand runs a CL command on the system through QSYS.QCMDEXC.
//
// A failure is logged and returned as a *DBError whose sentinel is
// ErrCommandFailed; the driver error stays reachable through errors.Is/As.
func (d *DB) RunCommand(ctx context.Context, command string) error {
	_, err := d.Exec(ctx, CommandStatement(command))
	if err == nil {
		return nil
	}
	d.logger.ErrorContext(ctx, "ibmi/db: command failed",
		slog.String("command", strings.TrimSpace(command)),
		slog.Any("error", err),
	)
	return &DBError{Sentinel: ErrCommandFailed, Cause: err, Message: strings.TrimSpace(command)}
}

// CommandStatement builds the QCMDEXC call for a CL command. Single quotes
// are doubled and the length is passed as DECIMAL(15,5) of the trimmed
// command, e.g.
//
//	CALL QSYS.QCMDEXC('DLTF FILE(QTEMP/WORK)', 0000000021.00000)
func CommandStatement(command string) string {
	trimmed := strings.TrimSpace(command)
	return fmt.Sprintf("CALL QSYS.QCMDEXC('%s', %010d.00000)",
		strings.ReplaceAll(trimmed, "'", "''"), utf8.RuneCountInString(trimmed))
}
