package middleware

import (
	"time"

	"github.com/advdv/bchain"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type accessLogConfig struct {
	exclude []string
	level   zapcore.Level
}

// AccessLogOption configures [AccessLog].
type AccessLogOption func(*accessLogConfig)

// ExcludePaths skips logging for requests whose normalized path equals one of paths.
func ExcludePaths(paths ...string) AccessLogOption {
	return func(c *accessLogConfig) {
		c.exclude = append(c.exclude, paths...)
	}
}

// WithLevel sets the level successful requests are logged at. Server errors are always logged
// at error level. Defaults to info.
func WithLevel(lvl zapcore.Level) AccessLogOption {
	return func(c *accessLogConfig) {
		c.level = lvl
	}
}

// AccessLog logs one entry per request once the rest of the chain has run, including the status
// chosen by a not-found or error terminal.
func AccessLog(logger *zap.Logger, opts ...AccessLogOption) bchain.Handler {
	cfg := accessLogConfig{level: zapcore.InfoLevel}
	for _, opt := range opts {
		opt(&cfg)
	}

	return bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		if lo.Contains(cfg.exclude, r.Path) {
			next(nil)
			return nil
		}

		start := time.Now()
		next(nil)

		status := w.StatusCode()
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
		}

		if ua := r.UserAgent(); ua != "" {
			fields = append(fields, zap.String("user_agent", ua))
		}

		if id := RequestIDFrom(r.Context()); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		lvl := cfg.level
		if status >= 500 {
			lvl = zapcore.ErrorLevel
		}

		logger.Log(lvl, "request", fields...)

		return nil
	})
}
