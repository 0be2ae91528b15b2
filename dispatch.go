package bchain

import (
	"net/http"
	"runtime/debug"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// chain drives one ordered list of handlers for a single request. The cursor is the index passed
// between step calls, so nothing about a chain is shared between requests.
type chain struct {
	w        *response
	r        *Request
	handlers []Handler

	// exhausted runs when the last handler called next without an error.
	exhausted func()
	// fail runs at most once when any handler aborts the chain.
	fail func(err error)
}

func (c *chain) step(i int) {
	if c.w.isDetached() || c.r.Context().Err() != nil {
		return
	}

	if i >= len(c.handlers) {
		c.exhausted()
		return
	}

	logs := c.r.config().Logger

	var called atomic.Bool
	next := func(err error) {
		if !called.CompareAndSwap(false, true) {
			logs.LogRepeatedNext(errors.Newf("handler %d of %d for %s %s", i+1, len(c.handlers), c.r.Method, c.r.Path))
			return
		}

		if err != nil {
			c.fail(err)
			return
		}

		c.step(i + 1)
	}

	if err := invoke(c.handlers[i], c.w, c.r, next); err != nil {
		if !called.CompareAndSwap(false, true) {
			// next already ran, there is no chain left to abort
			logs.LogUnhandledServeError(errors.Wrap(err, "error returned after next was called"))
			return
		}

		c.fail(err)
	}
}

// invoke calls the handler and turns a panic into a returned error. Writes after end in strict
// mode and http.ErrAbortHandler keep panicking.
func invoke(h Handler, w ResponseWriter, r *Request, next Next) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if _, ok := v.(misuse); ok || v == http.ErrAbortHandler { //nolint:errorlint
			panic(v)
		}

		err = &PanicError{Value: v, Stack: debug.Stack()}
	}()

	return h.ServeChain(w, r, next)
}

// runErrorHandler invokes the error terminal. It must never let a panic escape, so a panicking
// error handler is logged and replaced by a plain 500 when that is still possible.
func runErrorHandler(fn ErrorHandlerFunc, w *response, r *Request, err error) {
	logs := r.config().Logger

	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if _, ok := v.(misuse); ok {
			panic(v)
		}

		logs.LogErrorHandlerPanic(errors.Newf("%v (while handling: %v)", v, err))
		if !w.Ended() && !w.HeadersSent() {
			_ = WriteError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}()

	fn(w, r, err)
}

// DefaultErrorHandler logs the error and answers with the status from [StatusOf] and its
// standard text. If the response already went out partially it can only be ended.
func DefaultErrorHandler(w ResponseWriter, r *Request, err error) {
	r.config().Logger.LogUnhandledServeError(err)

	if w.Ended() {
		return
	}

	if w.HeadersSent() {
		_ = w.End()
		return
	}

	code := StatusOf(err)
	_ = WriteError(w, http.StatusText(code), code)
}

// DefaultNotFoundHandler answers with 404 and a plain text body.
func DefaultNotFoundHandler(w ResponseWriter, _ *Request, _ Next) error {
	return WriteError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
