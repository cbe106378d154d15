// Package log carries a slog.Logger in a context.
package log

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"
)

type loggerKey struct{}

// discard is used when a context carries no logger. The editor owns the
// terminal, so nothing may reach stderr by accident.
func discard() slog.Logger {
	return slog.Make(sloghuman.Sink(io.Discard))
}

func from(ctx context.Context) slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(slog.Logger)
	if !ok {
		return discard()
	}
	return l
}

func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithTB calls With with the result of slogtest.Make.
func WithTB(ctx context.Context, t testing.TB, opts *slogtest.Options) context.Context {
	l := slogtest.Make(t, opts)
	if os.Getenv("DEBUG") == "1" {
		l = l.Leveled(slog.LevelDebug)
	}
	return With(ctx, l)
}

// File logs to w in human readable form. DEBUG=1 enables debug output.
func File(ctx context.Context, w io.Writer) context.Context {
	l := slog.Make(sloghuman.Sink(w))
	if os.Getenv("DEBUG") == "1" {
		l = l.Leveled(slog.LevelDebug)
	}
	return With(ctx, l)
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	from(ctx).Error(ctx, msg, fields...)
}

// Recover logs a panic with its stack instead of letting it escape.
func Recover(ctx context.Context, where string) {
	if r := recover(); r != nil {
		from(ctx).Error(ctx, "recovered panic", slog.F("where", where), slog.F("panic", r), slog.F("stack", string(debug.Stack())))
	}
}

func Named(ctx context.Context, name string) context.Context {
	return With(ctx, from(ctx).Named(name))
}

func Sync(ctx context.Context) {
	from(ctx).Sync()
}
