// Package logger provides structured logging for respkv.
//
// It wraps the standard library log/slog to provide structured JSON or
// text logging with redaction of secrets and client payloads.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger

	// WithContext binds ctx to every record. A connection ID carried by
	// ctx (see WithConnID) is emitted as the conn_id attribute.
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// level is shared by every logger built by New so a config reload can
// change it at runtime.
var level = new(slog.LevelVar)

// New creates a logger writing to cfg.Output.
func New(cfg Config) (Logger, error) {
	level.Set(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	return &ctxLogger{log: slog.New(connHandler{h}), ctx: context.Background()}, nil
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return &ctxLogger{
		log: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
		ctx: context.Background(),
	}
}

// SetLevel changes the level of every logger built by New.
func SetLevel(lvl string) {
	level.Set(parseLevel(lvl))
}

// GetLevel returns the current level name.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// ValidLevel reports whether lvl names a known log level.
func ValidLevel(lvl string) bool {
	switch strings.ToLower(lvl) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// parseLevel maps a level name to slog. Unknown names mean info;
// callers validate with ValidLevel first.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// connHandler adds the connection ID found in the record's context.
type connHandler struct {
	slog.Handler
}

func (h connHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := ConnIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("conn_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h connHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return connHandler{h.Handler.WithAttrs(attrs)}
}

func (h connHandler) WithGroup(name string) slog.Handler {
	return connHandler{h.Handler.WithGroup(name)}
}

// ctxLogger is a slog.Logger bound to a context.
type ctxLogger struct {
	log *slog.Logger
	ctx context.Context
}

func (l *ctxLogger) Debug(msg string, args ...any) { l.log.Log(l.ctx, slog.LevelDebug, msg, args...) }
func (l *ctxLogger) Info(msg string, args ...any) { l.log.Log(l.ctx, slog.LevelInfo, msg, args...) }
func (l *ctxLogger) Warn(msg string, args ...any) { l.log.Log(l.ctx, slog.LevelWarn, msg, args...) }
func (l *ctxLogger) Error(msg string, args ...any) { l.log.Log(l.ctx, slog.LevelError, msg, args...) }

func (l *ctxLogger) With(args ...any) Logger {
	return &ctxLogger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *ctxLogger) WithContext(ctx context.Context) Logger {
	return &ctxLogger{log: l.log, ctx: ctx}
}

var defaultLogger atomic.Pointer[ctxLogger]

func init() {
	l, _ := New(Config{Level: "info", Format: "json"})
	defaultLogger.Store(l.(*ctxLogger))
}

// SetDefault replaces the fallback returned by Default and FromContext.
// It also becomes the log/slog default so third-party slog output shares
// the same handler.
func SetDefault(l Logger) {
	if cl, ok := l.(*ctxLogger); ok {
		defaultLogger.Store(cl)
		slog.SetDefault(cl.log)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}
