package bchain

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/advdv/bchain/internal/pathpattern"
)

// Router is a self-contained route table with its own middleware. It can serve requests on its
// own or be mounted under a base path of an [Application] or another Router.
type Router struct {
	cfg         *Config
	routes      RouteTable
	middlewares []Handler
	notFound    Handler
	reverser    *Reverser
	sealed      atomic.Bool

	mountMu sync.RWMutex
	base    pathpattern.Pattern
	host    *Router
}

// NewRouter creates an empty router.
func NewRouter(opts ...Option) *Router {
	return newRouter(newConfig(opts...))
}

func newRouter(cfg *Config) *Router {
	return &Router{
		cfg:      cfg,
		reverser: NewReverser(),
	}
}

// Use appends middleware that runs, in registration order, before the handlers of any matched
// route.
func (rt *Router) Use(mw ...Handler) {
	rt.ensureNotServing()
	rt.middlewares = append(rt.middlewares, mw...)
}

// UseFunc is like [Router.Use] for plain functions.
func (rt *Router) UseFunc(mw ...HandlerFunc) {
	for _, f := range mw {
		rt.Use(f)
	}
}

// Handle registers handlers for method and pattern. Earlier registrations win when more than one
// route matches a request.
func (rt *Router) Handle(method, pattern string, handlers ...Handler) *Route {
	rt.ensureNotServing()
	if len(handlers) < 1 {
		panic("bchain: route " + method + " " + pattern + " needs at least one handler")
	}

	route := &Route{
		method:   method,
		pattern:  pathpattern.Parse(pattern),
		handlers: handlers,
		owner:    rt,
	}

	rt.routes.add(route)

	return route
}

// HandleFunc is like [Router.Handle] for plain functions.
func (rt *Router) HandleFunc(method, pattern string, handlers ...HandlerFunc) *Route {
	hs := make([]Handler, len(handlers))
	for i, h := range handlers {
		hs[i] = h
	}

	return rt.Handle(method, pattern, hs...)
}

// Get registers a GET route.
func (rt *Router) Get(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodGet, pattern, handlers...)
}

// Head registers a HEAD route.
func (rt *Router) Head(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodHead, pattern, handlers...)
}

// Post registers a POST route.
func (rt *Router) Post(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodPost, pattern, handlers...)
}

// Put registers a PUT route.
func (rt *Router) Put(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodPut, pattern, handlers...)
}

// Patch registers a PATCH route.
func (rt *Router) Patch(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodPatch, pattern, handlers...)
}

// Delete registers a DELETE route.
func (rt *Router) Delete(pattern string, handlers ...HandlerFunc) *Route {
	return rt.HandleFunc(http.MethodDelete, pattern, handlers...)
}

// SetNotFoundHandler replaces the handler used when no route matched and nothing ended the
// response. The last call wins. If h calls next(nil) without ending the response,
// [DefaultNotFoundHandler] answers. A mounted router never uses its own not-found handler, it
// falls through to its host instead.
func (rt *Router) SetNotFoundHandler(h Handler) {
	rt.ensureNotServing()
	rt.notFound = h
}

// Routes returns the registered routes in registration order.
func (rt *Router) Routes() []*Route {
	out := make([]*Route, len(rt.routes.routes))
	copy(out, rt.routes.routes)

	return out
}

// Reverse returns the url of a named route, including the prefix the router is mounted under.
func (rt *Router) Reverse(name string, vals ...string) (string, error) {
	return rt.reverser.reverse(rt.prefix(), name, vals...)
}

// ServeHTTP serves the router on its own. Unlike a mounted router, a miss ends up in the
// router's not-found handler and errors are answered by [DefaultErrorHandler].
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.serve(w, r, DefaultErrorHandler)
}

// serve is the top-level dispatch shared by Router and Application.
func (rt *Router) serve(w http.ResponseWriter, hr *http.Request, onError ErrorHandlerFunc) {
	resp := newResponse(w, rt.cfg)
	req := newRequest(hr, rt.cfg)

	defer resp.detach()

	fail := func(err error) {
		runErrorHandler(onError, resp, req, err)
	}

	rt.dispatch(resp, req, func(matched bool) {
		if matched || resp.Ended() {
			return
		}

		rt.runNotFound(resp, req, fail)
	}, fail)

	if !resp.Ended() && hr.Context().Err() == nil {
		if err := resp.End(); err != nil {
			rt.cfg.Logger.LogImplicitFlushError(err)
		}
	}
}

// dispatch assembles the router's middleware and the handlers of the first matching route into
// one chain and starts it. Exhaustion is reported together with whether a route matched.
func (rt *Router) dispatch(w *response, r *Request, exhausted func(matched bool), fail func(error)) {
	rt.sealed.Store(true)

	route, params := rt.routes.Match(r.Method, r.Path, rt.prefix())

	handlers := make([]Handler, 0, len(rt.middlewares)+4)
	handlers = append(handlers, rt.middlewares...)
	if route != nil {
		r.mergeParams(params)
		handlers = append(handlers, route.handlers...)
	}

	matched := route != nil
	c := &chain{w: w, r: r, handlers: handlers, exhausted: func() { exhausted(matched) }, fail: fail}
	c.step(0)
}

func (rt *Router) runNotFound(w *response, r *Request, fail func(error)) {
	handlers := []Handler{HandlerFunc(DefaultNotFoundHandler)}
	if rt.notFound != nil {
		handlers = []Handler{rt.notFound, HandlerFunc(func(w ResponseWriter, r *Request, next Next) error {
			if w.Ended() {
				return nil
			}

			return DefaultNotFoundHandler(w, r, next)
		})}
	}

	c := &chain{w: w, r: r, handlers: handlers, exhausted: func() {}, fail: fail}
	c.step(0)
}

func (rt *Router) ensureNotServing() {
	if rt.sealed.Load() {
		panic("bchain: cannot register after serving started")
	}
}
