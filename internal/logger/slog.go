package logger

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Slog bridges a zap logger into log/slog for libraries that accept
// *slog.Logger. Levels map one to one, attributes become zap fields.
func Slog(l *zap.Logger) *slog.Logger {
	return slog.New(&zapHandler{base: l})
}

type zapHandler struct {
	base *zap.Logger
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.base.Core().Enabled(zapLevel(level))
}

func (h *zapHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := make([]zap.Field, 0, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
		return true
	})
	if ce := h.base.Check(zapLevel(rec.Level), rec.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		fields = append(fields, zap.Any(a.Key, a.Value.Any()))
	}
	return &zapHandler{base: h.base.With(fields...)}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &zapHandler{base: h.base.Named(name)}
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
