package bchain

import (
	"net/http"
)

// Next continues the chain when called with a nil error and aborts it, jumping straight to the
// error handler, when called with a non-nil error. Only the first call per handler invocation
// has any effect.
type Next func(err error)

// Handler is one link in a dispatch chain. It either finishes the response, calls next to hand
// control to the following handler, or fails. Returning a non-nil error is equivalent to calling
// next with that error.
type Handler interface {
	ServeChain(w ResponseWriter, r *Request, next Next) error
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(w ResponseWriter, r *Request, next Next) error

// ServeChain implements the [Handler] interface.
func (f HandlerFunc) ServeChain(w ResponseWriter, r *Request, next Next) error {
	return f(w, r, next)
}

// ErrorHandlerFunc handles an error that aborted a chain. It does not take part in the chain and
// cannot continue it.
type ErrorHandlerFunc func(w ResponseWriter, r *Request, err error)

// Std converts a standard library http.Handler into a terminal [Handler]. The response is ended
// once the standard handler returns, so the chain never continues past it.
func Std(h http.Handler) Handler {
	return HandlerFunc(func(w ResponseWriter, r *Request, _ Next) error {
		h.ServeHTTP(w, r.Request)
		if w.Ended() {
			return nil
		}

		return w.End()
	})
}

// StdFunc is like [Std] for plain functions.
func StdFunc(f func(http.ResponseWriter, *http.Request)) Handler {
	return Std(http.HandlerFunc(f))
}
