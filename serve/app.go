package serve

import (
	"context"
	"net/http"

	"github.com/advdv/bchain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	ChainOptions []bchain.Option
	FxOptions    []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// runtimeProviderParams holds dependencies for Runtime.
type runtimeProviderParams[E Environment] struct {
	fx.In

	Env E
	App *bchain.Application
}

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h bchain.HandlerFunc) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// WithMetricsPath changes where the prometheus metrics are served. Defaults to [DefaultMetricsPath].
func WithMetricsPath(p string) Option {
	return func(c *AppConfig) {
		c.MetricsPath = p
	}
}

// WithChainOptions passes options to the [bchain.Application]. The logger is always the
// zap-backed one and cannot be replaced this way.
func WithChainOptions(opts ...bchain.Option) Option {
	return func(c *AppConfig) {
		c.ChainOptions = append(c.ChainOptions, opts...)
	}
}

// NewApp creates a batteries-included app with dependency injection.
//
// The routing function can request any types that are provided via fx options.
// At minimum, it should accept *bchain.Application for routing.
//
// Example:
//
//	serve.NewApp[Env](func(app *bchain.Application, h *Handlers) {
//	    app.Get("/items/:id", h.GetItem).Named("get-item")
//	},
//	    serve.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions[E](routing, opts...)...),
	}
}

// FxOptions returns the full dependency graph that [NewApp] runs, for tests that want to drive
// it through fxtest.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 14+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(func(l *zap.Logger) *bchain.Application {
			return bchain.NewApplication(append(cfg.ChainOptions, bchain.WithLogger(NewChainLogger(l)))...)
		}),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewMetrics),
		fx.Provide(NewHTTPTransport),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServer),
		fx.Provide(func(p runtimeProviderParams[E], t http.RoundTripper) *Runtime[E] {
			return NewRuntime(p.Env, p.App, t)
		}),
		fx.Invoke(startServerHook),
		fx.Invoke(routing),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context. It blocks until the context is done and
// then stops the application.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
