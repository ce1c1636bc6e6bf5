// Command ibmi runs SQL statements, stored procedures and CL commands on an
// IBM i system, and converts packed numeric dates and times.
//
//	ibmi query "SELECT * FROM MYLIB.ORDHDR WHERE OHDAT = ?" 20230615
//	ibmi exec  "DELETE FROM MYLIB.WORK"
//	ibmi call  MYLIB.REBUILD 2023
//	ibmi cmd   "CLRPFM FILE(MYLIB/WORK)"
//	ibmi date decode 20230615 93045 6
//	ibmi date encode 2023-06-15T09:30:45 4
//
// Connection settings come from the environment or a .env file: either
// IBMI_DSN (plus optional IBMI_DRIVER, IBMI_TIMEOUT), or IBMI_SYSTEM,
// IBMI_USER, IBMI_PASSWORD, IBMI_LIBRARIES (comma separated) and
// IBMI_NAMING=system|sql.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skryldev/ibmi-toolkit/db"
	"github.com/Skryldev/ibmi-toolkit/db/odbcdriver"
)

func main() {
	_ = godotenv.Load()

	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("IBMI_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("ibmi: failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		usage(out)
		return fmt.Errorf("missing command")
	}
	command, rest := args[0], args[1:]

	if command == "date" {
		return runDate(rest, out)
	}
	if len(rest) == 0 {
		usage(out)
		return fmt.Errorf("%s: missing argument", command)
	}

	d, err := connect(logger)
	if err != nil {
		return err
	}
	defer d.Close()

	params := make([]any, 0, len(rest)-1)
	for _, a := range rest[1:] {
		params = append(params, a)
	}

	switch command {
	case "query":
		t, err := d.GetData(ctx, rest[0], params...)
		if err != nil {
			return err
		}
		return printTable(out, t)

	case "exec":
		res, err := d.Exec(ctx, rest[0], params...)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		fmt.Fprintf(out, "%d row(s) affected\n", n)
		return nil

	case "call":
		return d.CallProcedure(ctx, rest[0], params...)

	case "cmd":
		if err := d.RunCommand(ctx, strings.Join(rest, " ")); err != nil {
			return err
		}
		fmt.Fprintln(out, "command completed")
		return nil

	default:
		usage(out)
		return fmt.Errorf("unknown command %q", command)
	}
}

// connect opens the system described by IBMI_* variables.
func connect(logger *slog.Logger) (*db.DB, error) {
	hooks := []db.Hook{db.NewLogHook(db.LogHookConfig{
		Logger:             logger,
		SlowQueryThreshold: 2 * time.Second,
	})}

	if os.Getenv("IBMI_DSN") != "" {
		cfg, err := db.ConfigFromEnv("IBMI")
		if err != nil {
			return nil, err
		}
		cfg.Logger = logger
		cfg.Hooks = hooks
		d, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.DriverName == (odbcdriver.Driver{}).Name() {
			d.SetErrorMapper(db.ChainMapper(odbcdriver.Driver{}.ErrorMapper(), db.DefaultErrorMapper()))
		}
		return d, nil
	}

	opts := db.DriverOptions{
		Host:     os.Getenv("IBMI_SYSTEM"),
		User:     os.Getenv("IBMI_USER"),
		Password: os.Getenv("IBMI_PASSWORD"),
	}
	if libs := os.Getenv("IBMI_LIBRARIES"); libs != "" {
		opts.Libraries = strings.Split(libs, ",")
	}
	if strings.EqualFold(os.Getenv("IBMI_NAMING"), "system") {
		opts.Naming = db.SystemNaming
	}
	return db.OpenWithDriver("odbc", opts, db.Config{Logger: logger, Hooks: hooks})
}

func printTable(out io.Writer, t *db.Table) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	fmt.Fprintln(w, strings.Join(names, "\t"))
	for r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = t.String(r, c.Name)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "(%d rows)\n", t.Len())
	return nil
}

func usage(out io.Writer) {
	fmt.Fprintln(out, `Usage: ibmi <command> [args]

Commands:
  query <sql> [params...]          Run a query and print the result table
  exec  <sql> [params...]          Run INSERT/UPDATE/DELETE/DDL
  call  <procedure> [params...]    Call a stored procedure
  cmd   <CL command>               Run a CL command through QCMDEXC
  date decode <date> [time width]  Packed YYYYMMDD [HHMM|HHMMSS] to timestamp
  date encode <timestamp> [width]  Timestamp to packed date [and time]`)
}
