package middleware

import (
	"context"

	"github.com/advdv/bchain"
	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header the request id is read from and written to.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type requestIDConfig struct {
	header        string
	generator     func() string
	allowClientID bool
}

// RequestIDOption configures [RequestID].
type RequestIDOption func(*requestIDConfig)

// WithHeader changes the request and response header name.
func WithHeader(name string) RequestIDOption {
	return func(c *requestIDConfig) {
		c.header = name
	}
}

// WithGenerator replaces the UUIDv7 generator.
func WithGenerator(fn func() string) RequestIDOption {
	return func(c *requestIDConfig) {
		c.generator = fn
	}
}

// WithAllowClientID controls whether an id sent by the client is kept. Defaults to true.
func WithAllowClientID(v bool) RequestIDOption {
	return func(c *requestIDConfig) {
		c.allowClientID = v
	}
}

// RequestID assigns every request an id, echoes it in the response header and stores it in the
// request context for [RequestIDFrom].
func RequestID(opts ...RequestIDOption) bchain.Handler {
	cfg := requestIDConfig{
		header:        DefaultRequestIDHeader,
		generator:     func() string { return uuid.Must(uuid.NewV7()).String() },
		allowClientID: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		var id string
		if cfg.allowClientID {
			id = r.Header.Get(cfg.header)
		}

		if id == "" {
			id = cfg.generator()
		}

		w.Header().Set(cfg.header, id)
		r.Request = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
		next(nil)

		return nil
	})
}

// RequestIDFrom returns the id stored by [RequestID], or the empty string.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
