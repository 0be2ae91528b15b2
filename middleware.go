package bchain

import "github.com/cockroachdb/errors"

// Compose bundles handlers into one. The bundled handlers run back-to-back with the usual
// continuation rules; when the last one calls next the outer chain continues, and an error from
// any of them aborts the outer chain.
func Compose(hs ...Handler) Handler {
	if len(hs) == 1 {
		return hs[0]
	}

	return HandlerFunc(func(w ResponseWriter, r *Request, next Next) error {
		resp, ok := w.(*response)
		if !ok {
			return errors.Newf("bchain: composed handler received foreign response writer %T", w)
		}

		c := &chain{w: resp, r: r, handlers: hs, exhausted: func() { next(nil) }, fail: next}
		c.step(0)

		return nil
	})
}
