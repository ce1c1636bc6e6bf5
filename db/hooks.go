package db

import (
	"context"
	"log/slog"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Hook interface
// ─────────────────────────────────────────────────────────────────────────────

// Hook is called before and after every statement.
//
// Implementations MUST be goroutine-safe and SHOULD be non-blocking.
// Panics inside a hook are recovered and logged through the DB's logger.
type Hook interface {
	// BeforeQuery is invoked before a connection is taken for the statement.
	BeforeQuery(ctx context.Context, query string, args []any)

	// AfterQuery is invoked once the statement and its connection are done.
	// err is the mapped error returned to the caller, nil on success.
	AfterQuery(ctx context.Context, query string, args []any, duration time.Duration, err error)
}

// ─────────────────────────────────────────────────────────────────────────────
// hookChain
// ─────────────────────────────────────────────────────────────────────────────

type hookChain struct {
	hooks  []Hook
	logger *slog.Logger
}

func newHookChain(hooks []Hook, logger *slog.Logger) hookChain {
	filtered := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	return hookChain{hooks: filtered, logger: logger}
}

func (c hookChain) Before(ctx context.Context, query string, args []any) {
	for _, h := range c.hooks {
		c.safely(ctx, "BeforeQuery", func() { h.BeforeQuery(ctx, query, args) })
	}
}

func (c hookChain) After(ctx context.Context, query string, args []any, d time.Duration, err error) {
	for _, h := range c.hooks {
		c.safely(ctx, "AfterQuery", func() { h.AfterQuery(ctx, query, args, d, err) })
	}
}

func (c hookChain) safely(ctx context.Context, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "ibmi/db: hook panic", slog.String("phase", phase), slog.Any("panic", r))
		}
	}()
	fn()
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging hook
// ─────────────────────────────────────────────────────────────────────────────

// LogHookConfig configures the structured logging hook.
type LogHookConfig struct {
	// Logger defaults to slog.Default() if nil.
	Logger *slog.Logger
	// SlowQueryThreshold logs a warning when duration exceeds this value.
	// Zero disables slow-statement logging.
	SlowQueryThreshold time.Duration
	// LogArgs includes bound parameters in log entries.
	LogArgs bool
}

// NewLogHook returns a Hook that logs every statement via slog: errors at
// error level, slow statements at warn, the rest at debug.
func NewLogHook(cfg LogHookConfig) Hook {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &logHook{cfg: cfg, logger: logger}
}

type logHook struct {
	cfg    LogHookConfig
	logger *slog.Logger
}

func (h *logHook) BeforeQuery(context.Context, string, []any) {}

func (h *logHook) AfterQuery(ctx context.Context, query string, args []any, d time.Duration, err error) {
	attrs := []any{
		slog.String("query", trimQuery(query)),
		slog.Duration("duration", d),
	}
	if h.cfg.LogArgs && len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}

	switch {
	case err != nil:
		h.logger.ErrorContext(ctx, "ibmi/db: statement error", append(attrs, slog.Any("error", err))...)
	case h.cfg.SlowQueryThreshold > 0 && d > h.cfg.SlowQueryThreshold:
		h.logger.WarnContext(ctx, "ibmi/db: slow statement", attrs...)
	default:
		h.logger.DebugContext(ctx, "ibmi/db: statement", attrs...)
	}
}

func trimQuery(q string) string {
	if len(q) > 500 {
		return q[:500] + "…"
	}
	return q
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics hook
// ─────────────────────────────────────────────────────────────────────────────

// MetricsCollector receives one observation per statement.
type MetricsCollector interface {
	RecordQuery(query string, duration time.Duration, success bool)
}

// NewMetricsHook returns a Hook that reports to collector.
func NewMetricsHook(collector MetricsCollector) Hook {
	return &metricsHook{c: collector}
}

type metricsHook struct{ c MetricsCollector }

func (h *metricsHook) BeforeQuery(context.Context, string, []any) {}
func (h *metricsHook) AfterQuery(_ context.Context, query string, _ []any, d time.Duration, err error) {
	h.c.RecordQuery(query, d, err == nil)
}
