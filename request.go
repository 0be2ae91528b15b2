package bchain

import (
	"net/http"

	"github.com/advdv/bchain/internal/pathpattern"
)

// Request is the per-request context handed down a chain. It embeds the standard request so
// headers, the raw body stream and the context remain available.
type Request struct {
	*http.Request

	// Path is the normalized, still escaped, request path used for route matching.
	Path string

	// Params holds named path parameters. Each router that matches the request merges its
	// bindings in, so deeper routers can narrow or override the values of outer ones.
	Params map[string]string

	// Query holds the first value of each query string parameter, decoded once.
	Query map[string]string

	// Payload is empty until a body-reading middleware stores the decoded request body.
	Payload any

	cfg *Config
}

func newRequest(hr *http.Request, cfg *Config) *Request {
	query := make(map[string]string)
	for k, vs := range hr.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	return &Request{
		Request: hr,
		Path:    pathpattern.Normalize(hr.URL.EscapedPath()),
		Params:  make(map[string]string),
		Query:   query,
		cfg:     cfg,
	}
}

// Param returns the named path parameter or the empty string.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

func (r *Request) mergeParams(params pathpattern.Params) {
	for k, v := range params {
		r.Params[k] = v
	}
}

func (r *Request) config() *Config {
	if r.cfg == nil {
		return defaultConfig()
	}

	return r.cfg
}
