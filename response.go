package bchain

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
)

// ResponseWriter extends http.ResponseWriter with the state a chain needs: whether headers went
// out, whether the response was ended, and a few helpers that end it in one call. Once ended,
// any further write is a programming error.
type ResponseWriter interface {
	http.ResponseWriter

	// Status sets the status code used when headers are sent. It has no effect once they are.
	Status(code int) ResponseWriter
	// Send writes body as the complete response and ends it.
	Send(body string) error
	// JSON encodes v as the complete response and ends it.
	JSON(v any) error
	// End sends the headers if needed and closes the response.
	End() error

	StatusCode() int
	HeadersSent() bool
	Ended() bool
}

type response struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	cfg         *Config
	status      int
	headersSent bool
	ended       bool
	detached    bool
	written     int64
}

func newResponse(w http.ResponseWriter, cfg *Config) *response {
	return &response{w: w, cfg: cfg, status: http.StatusOK}
}

func (r *response) Header() http.Header { return r.w.Header() }

func (r *response) Status(code int) ResponseWriter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.headersSent {
		r.status = code
	}

	return r
}

func (r *response) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.headersSent || r.ended || r.detached {
		return
	}

	r.status = code
	r.sendHeaders()
}

func (r *response) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writable("write"); err != nil {
		return 0, err
	}

	r.sendHeaders()
	n, err := r.w.Write(b)
	r.written += int64(n)

	return n, err
}

func (r *response) Send(body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writable("send"); err != nil {
		return err
	}

	h := r.w.Header()
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", "text/plain; charset=utf-8")
	}

	if !r.headersSent {
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	r.sendHeaders()
	n, err := r.w.Write([]byte(body))
	r.written += int64(n)
	r.ended = true

	if err != nil {
		return errors.Wrap(err, "failed to write body")
	}

	return nil
}

func (r *response) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode json body")
	}

	if r.Header().Get("Content-Type") == "" {
		r.Header().Set("Content-Type", "application/json; charset=utf-8")
	}

	return r.Send(string(data))
}

func (r *response) End() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writable("end"); err != nil {
		return err
	}

	r.sendHeaders()
	r.ended = true

	return nil
}

func (r *response) StatusCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

func (r *response) HeadersSent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.headersSent
}

func (r *response) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ended || r.detached
}

// Flush implements http.Flusher when the underlying writer does.
func (r *response) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended || r.detached {
		return
	}

	r.sendHeaders()
	if f, ok := r.w.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker when the underlying writer does.
func (r *response) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.w.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("bchain: underlying response writer does not support hijacking")
	}

	r.mu.Lock()
	r.ended = true
	r.mu.Unlock()

	return h.Hijack()
}

// Unwrap allows http.ResponseController to reach the underlying writer.
func (r *response) Unwrap() http.ResponseWriter { return r.w }

// detach marks the request as served. Later writes fail without being treated as misuse.
func (r *response) detach() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detached = true
}

func (r *response) isDetached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.detached
}

// writable must be called with the lock held.
func (r *response) writable(op string) error {
	if r.detached {
		return ErrResponseDetached
	}

	if !r.ended {
		return nil
	}

	err := errors.Wrapf(ErrResponseEnded, "%s after end", op)
	r.cfg.Logger.LogResponseMisuse(err)

	if r.cfg.StrictWrites {
		panic(misuse{err})
	}

	return err
}

// sendHeaders must be called with the lock held.
func (r *response) sendHeaders() {
	if r.headersSent {
		return
	}

	r.headersSent = true
	r.w.WriteHeader(r.status)
}

// misuse is the panic value for writes after end in strict mode. It is never turned into a
// regular handler error.
type misuse struct{ err error }

func (m misuse) Error() string { return m.err.Error() }

var _ ResponseWriter = &response{}
