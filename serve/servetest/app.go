// Package servetest provides test helpers for serve applications.
//
// It constructs the identical DI graph as [serve.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	servetest.SetBaseEnv(t, 18081)
//	app := servetest.New[TestEnv](t, routing, serve.WithFx(...))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package servetest

import (
	"testing"

	"github.com/advdv/bchain/serve"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing serve applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [serve.NewApp].
func New[E serve.Environment](t testing.TB, routing any, opts ...serve.Option) *App {
	return &App{App: fxtest.New(t, serve.FxOptions[E](routing, opts...)...)}
}
