package bchain

import (
	"github.com/advdv/bchain/internal/pathpattern"
)

// Route binds a method and path pattern to one or more handlers. Routes never change after
// registration.
type Route struct {
	method   string
	pattern  pathpattern.Pattern
	handlers []Handler
	owner    *Router
}

// Method returns the method the route matches.
func (rt *Route) Method() string { return rt.method }

// Pattern returns the normalized pattern the route was registered with, without any mount
// prefix.
func (rt *Route) Pattern() string { return rt.pattern.String() }

// Named registers the route's pattern under name with its router, so that the URL can be
// built with [Router.Reverse]. It panics if the name is taken.
func (rt *Route) Named(name string) *Route {
	rt.owner.reverser.Named(name, rt.pattern)
	return rt
}

// RouteTable is an ordered, append-only list of routes. Lookups return the first route that
// matches; there is no specificity ranking.
type RouteTable struct {
	routes []*Route
}

func (t *RouteTable) add(rt *Route) {
	t.routes = append(t.routes, rt)
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int { return len(t.routes) }

// Match returns the first route whose method equals method and whose pattern, prefixed with
// prefix, matches path.
func (t *RouteTable) Match(method, path string, prefix pathpattern.Pattern) (*Route, pathpattern.Params) {
	for _, rt := range t.routes {
		if rt.method != method {
			continue
		}

		if params, ok := pathpattern.Join(prefix, rt.pattern).Match(path); ok {
			return rt, params
		}
	}

	return nil, nil
}
