package bchain

import (
	"github.com/advdv/bchain/internal/pathpattern"
	"github.com/cockroachdb/errors"
)

// Mount installs sub as a single middleware of rt under basePath. For every request at or below
// that path the sub router runs its own middleware and routes. Its route patterns are matched
// against the full path with the base path prepended, nothing is stripped from the request. When
// nothing in sub finishes the request, control falls through to rt's next handler, and errors
// are passed on to rt so only one error handler ever runs.
//
// Mounting the same router again moves it: the new base path applies to every place it is
// mounted.
func (rt *Router) Mount(basePath string, sub *Router) {
	rt.ensureNotServing()

	for h := rt; h != nil; h = h.hostRouter() {
		if h == sub {
			panic("bchain: cannot mount a router on itself or on one of its descendants")
		}
	}

	sub.mountMu.Lock()
	sub.base = pathpattern.Parse(basePath)
	sub.host = rt
	sub.mountMu.Unlock()

	rt.Use(sub.delegate())
}

// prefix returns the effective base path: the hosts' prefixes followed by the own base path.
func (rt *Router) prefix() pathpattern.Pattern {
	rt.mountMu.RLock()
	host, base := rt.host, rt.base
	rt.mountMu.RUnlock()

	if host == nil {
		return base
	}

	return pathpattern.Join(host.prefix(), base)
}

func (rt *Router) hostRouter() *Router {
	rt.mountMu.RLock()
	defer rt.mountMu.RUnlock()

	return rt.host
}

// delegate is the middleware a mounted router is installed as.
func (rt *Router) delegate() Handler {
	return HandlerFunc(func(w ResponseWriter, r *Request, next Next) error {
		if _, ok := rt.prefix().MatchPrefix(r.Path); !ok {
			next(nil)
			return nil
		}

		resp, ok := w.(*response)
		if !ok {
			return errors.Newf("bchain: mounted router received foreign response writer %T", w)
		}

		rt.dispatch(resp, r, func(bool) { next(nil) }, next)

		return nil
	})
}
