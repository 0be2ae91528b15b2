package serve

import (
	"net/http"

	"github.com/advdv/bchain"
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *serve.Runtime[Env]
//	}
//
//	func NewHandlers(rt *serve.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) GetItem(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
//	    env := h.rt.Env()
//	    url, _ := h.rt.Reverse("get-item", r.Param("id"))
//	    // ...
//	}
type Runtime[E Environment] struct {
	env       E
	app       *bchain.Application
	transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies. A nil transport means
// http.DefaultTransport.
func NewRuntime[E Environment](env E, app *bchain.Application, transport http.RoundTripper) *Runtime[E] {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Runtime[E]{
		env:       env,
		app:       app,
		transport: transport,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been named with [bchain.Route.Named].
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.app.Reverse(name, params...)
}

// NewRequest returns a request builder whose transport traces outbound calls and propagates
// the trace context of the request it is used in.
//
//	var out Item
//	err := h.rt.NewRequest().BaseURL(upstream).Pathf("/items/%s", id).ToJSON(&out).Fetch(r.Context())
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return newRequestBuilder(r.transport)
}

// HTTPClient returns a client on the instrumented transport whose timeout is BCH_REQUEST_TIMEOUT,
// so an outbound call never outlives the request that made it.
func (r *Runtime[E]) HTTPClient() *http.Client {
	return NewHTTPClient(r.transport, r.env.requestTimeout())
}
