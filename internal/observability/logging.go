// Package observability carries request-scoped logging context.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/wordgames/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RequestID   string
	Fingerprint string
	Job         string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.RequestID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithFingerprint records the content fingerprint being served.
func WithFingerprint(ctx context.Context, fp string) context.Context {
	lc := extractLogContext(ctx)
	lc.Fingerprint = fp
	return context.WithValue(ctx, logContextKey, lc)
}

// WithJob names the background job (export, reload) the context belongs to.
func WithJob(ctx context.Context, job string) context.Context {
	lc := extractLogContext(ctx)
	lc.Job = job
	return context.WithValue(ctx, logContextKey, lc)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	return extractLogContext(ctx).RequestID
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// Attrs returns slog attributes for the context's LogContext.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}
	if lc.RequestID != "" {
		attrs = append(attrs, logfields.RequestID(lc.RequestID))
	}
	if lc.Fingerprint != "" {
		attrs = append(attrs, logfields.Fingerprint(lc.Fingerprint))
	}
	if lc.Job != "" {
		attrs = append(attrs, slog.String("job", lc.Job))
	}
	return attrs
}

// Log writes msg to logger with the context attributes prepended.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	all := append(Attrs(ctx), attrs...)
	logger.LogAttrs(ctx, level, msg, all...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelInfo, msg, attrs...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelWarn, msg, attrs...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelError, msg, attrs...)
}
