package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/advdv/bchain"
	"github.com/advdv/bchain/static"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/handlers"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultMetricsPath is where the prometheus metrics are served.
const DefaultMetricsPath = "/metrics"

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler bchain.HandlerFunc
	MetricsPath   string
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	App        *bchain.Application
	Logger     *zap.Logger
	Metrics    *Metrics
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server with all middleware and routing configured.
func NewServer(params ServerParams, cfg ServerConfig) (*http.Server, error) {
	d := &requestDep{
		logger: params.Logger,
	}

	tc := TimeoutConfig{RequestTimeout: params.Env.requestTimeout()}

	params.App.Use(withRequestDep(d))
	params.App.Use(params.Metrics.Middleware())
	params.App.Use(WithRequestDeadline(tc))

	// Register the health check endpoint at the path specified by BCH_READINESS_CHECK_PATH.
	// Tracing is disabled for this path to avoid noisy traces from probes.
	healthPath := params.Env.readinessCheckPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	params.App.Get(healthPath, healthHandler)
	params.App.Head(healthPath, healthHandler)

	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = DefaultMetricsPath
	}
	params.App.Handle(http.MethodGet, metricsPath, params.Metrics.Handler())

	if root := params.Env.staticRoot(); root != "" {
		dotfiles, ok := static.ParseDotfiles(params.Env.staticDotfiles())
		if !ok {
			return nil, errors.Newf("unsupported BCH_STATIC_DOTFILES: %q (supported: allow, deny, ignore)",
				params.Env.staticDotfiles())
		}

		params.App.Use(static.New(root,
			static.WithMaxAge(params.Env.staticMaxAge()),
			static.WithDotfiles(dotfiles)))
	}

	// Add tracing with explicit provider injection (no globals).
	var handler http.Handler = params.App
	handler = withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath, metricsPath)(handler)

	if origins := params.Env.corsOrigins(); len(origins) > 0 {
		handler = withCORS(origins)(handler)
	}

	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := tc.ServerTimeouts()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}, nil
}

// withCORS answers preflight requests and sets the Access-Control-Allow-* headers for the given
// origins before the request reaches the application.
func withCORS(origins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
		}),
		handlers.AllowedMethods([]string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
	)
}

// startServerHook registers lifecycle hooks for the HTTP server. The listener is bound during
// start so that a taken port fails the application instead of a background goroutine.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lcfg net.ListenConfig
			ln, err := lcfg.Listen(ctx, "tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", server.Addr)
			}

			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
	return w.Status(http.StatusOK).End()
}
