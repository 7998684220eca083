package toolguard

import (
	"context"
	"log/slog"
	"time"
)

// SanitizeFunc is the signature of Sanitizer.Sanitize; middlewares wrap it.
type SanitizeFunc func(ctx context.Context, raw []byte) (Result, error)

// Middleware wraps a SanitizeFunc with cross-cutting behavior (logging, recovery, metrics).
type Middleware func(SanitizeFunc) SanitizeFunc

// WithLogging returns a middleware that logs each validation with its outcome and duration.
// Rejections and warnings are logged at Info; decode failures at Warn.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next SanitizeFunc) SanitizeFunc {
		return func(ctx context.Context, raw []byte) (Result, error) {
			start := time.Now()
			res, err := next(ctx, raw)
			dur := time.Since(start)
			switch {
			case err != nil && IsClientError(err):
				logger.WarnContext(ctx, "tool call not decodable", "bytes", len(raw), "duration", dur, "error", err)
			case err != nil:
				logger.ErrorContext(ctx, "tool call validation failed", "duration", dur, "error", err)
			default:
				logger.InfoContext(ctx, "tool call validated",
					"accepted", res.OK(),
					"action", string(res.Clean.Action),
					"warnings", res.Diagnostics.Count(SeverityWarning),
					"fatal", res.Diagnostics.Count(SeverityFatal),
					"duration", dur,
				)
			}
			return res, err
		}
	}
}

// WithRecovery returns a middleware that recovers panics and returns SystemError.
func WithRecovery() Middleware {
	return func(next SanitizeFunc) SanitizeFunc {
		return func(ctx context.Context, raw []byte) (res Result, err error) {
			defer func() {
				if p := recover(); p != nil {
					res = Result{}
					err = &SystemError{Err: &panicError{p: p}}
				}
			}()
			return next(ctx, raw)
		}
	}
}

// chain applies middlewares to fn in onion order: the first middleware is outermost.
func chain(fn SanitizeFunc, middlewares []Middleware) SanitizeFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}
