package bchain

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Application is the root of a dispatch tree: a [Router] with the single error handler every
// chain below it reports to, and the means to listen for traffic.
type Application struct {
	*Router

	onError ErrorHandlerFunc

	mu     sync.Mutex
	server *http.Server
}

// NewApplication creates an application with default not-found and error handling.
func NewApplication(opts ...Option) *Application {
	return &Application{Router: newRouter(newConfig(opts...))}
}

// SetErrorHandler replaces the error handler. The last call wins. The handler must not panic;
// if it does anyway the panic is logged and a plain 500 is attempted.
func (a *Application) SetErrorHandler(fn ErrorHandlerFunc) {
	a.ensureNotServing()
	a.onError = fn
}

// ServeHTTP makes the application implement the http.Handler interface.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	onError := a.onError
	if onError == nil {
		onError = DefaultErrorHandler
	}

	a.Router.serve(w, r, onError)
}

// Listen serves the application on the given TCP port until [Application.Shutdown] is called.
// Port 0 picks a free port. The callback, if any, runs once the listener is bound, with its
// address. Registering routes or middleware is not allowed from then on.
func (a *Application) Listen(port int, callback func(addr net.Addr)) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", port)
	}

	return a.Serve(ln, callback)
}

// Serve is like [Application.Listen] for an existing listener.
func (a *Application) Serve(ln net.Listener, callback func(addr net.Addr)) error {
	srv := &http.Server{
		Handler:           a,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.mu.Lock()
	if a.server != nil {
		a.mu.Unlock()
		_ = ln.Close()

		return errors.New("bchain: application is already listening")
	}
	a.server = srv
	a.mu.Unlock()

	a.sealed.Store(true)

	if callback != nil {
		callback(ln.Addr())
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to serve")
	}

	return nil
}

// Shutdown gracefully stops a listening application. It is a no-op when not listening.
func (a *Application) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.server = nil
	a.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

// Mount installs a router under basePath, see [Router.Mount].
func (a *Application) Mount(basePath string, sub *Router) {
	a.Router.Mount(basePath, sub)
}
