package serve

import (
	"context"
	"time"

	"github.com/advdv/bchain"
)

// Timeouts
//
// A request is bounded twice. The http.Server timeouts derived from BCH_REQUEST_TIMEOUT are the
// outer bound and protect the process from slow or stalled clients. Inside that, every request
// context carries a deadline of the same timeout minus a small buffer, so handlers and outbound
// calls stop in time to still produce an error response before the server cuts the connection.
//
// The dispatch chain stops at the next handler boundary once the request context is done.

// DefaultDeadlineBuffer is the default time reserved before the request timeout
// for cleanup and error responses.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// TimeoutConfig holds timeout configuration for the HTTP server.
type TimeoutConfig struct {
	// RequestTimeout is the configured upper bound for handling one request.
	RequestTimeout time.Duration

	// DeadlineBuffer is subtracted from the request timeout to allow
	// time for cleanup and error responses. Defaults to DefaultDeadlineBuffer.
	DeadlineBuffer time.Duration
}

// effective returns the request timeout minus the buffer, or the full timeout when the buffer
// does not fit.
func (tc TimeoutConfig) effective() time.Duration {
	buffer := tc.DeadlineBuffer
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	timeout := tc.RequestTimeout - buffer
	if timeout <= 0 {
		timeout = tc.RequestTimeout // fallback if buffer >= timeout
	}

	return timeout
}

// ServerTimeouts returns the http.Server timeout values for the configured request timeout.
// Each of them is the request timeout minus DeadlineBuffer, with the header timeout capped at
// five seconds.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	timeout := tc.effective()

	// Headers should arrive quickly, but never allow more than the effective timeout.
	readHeaderTimeout = min(timeout, 5*time.Second)

	readTimeout = timeout
	writeTimeout = timeout
	idleTimeout = timeout

	return
}

// WithRequestDeadline returns middleware that bounds the request context by the effective
// timeout. A non-positive RequestTimeout disables it.
func WithRequestDeadline(tc TimeoutConfig) bchain.Handler {
	return bchain.HandlerFunc(func(_ bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		if tc.RequestTimeout <= 0 {
			next(nil)
			return nil
		}

		ctx, cancel := context.WithTimeout(r.Context(), tc.effective())
		defer cancel()

		r.Request = r.WithContext(ctx)
		next(nil)

		return nil
	})
}

// RequestDeadline returns the context deadline for the current request.
// Returns the zero time and false if no deadline is set.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
