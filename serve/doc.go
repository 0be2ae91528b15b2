// Package serve runs a [bchain.Application] as a complete service.
//
// It wires the application into an fx dependency graph together with a zap logger, an
// OpenTelemetry tracer provider, prometheus metrics and an http.Server whose lifecycle is tied to
// the fx app. Configuration is read from the environment with caarlos0/env:
//
//	BCH_PORT                  port to listen on (required)
//	BCH_SERVICE_NAME          service name for traces and metrics (required)
//	BCH_READINESS_CHECK_PATH  health endpoint, default "/health"
//	BCH_LOG_LEVEL             zap level, default "info"
//	BCH_OTEL_EXPORTER         none, stdout or xrayudp, default "none"
//	BCH_REQUEST_TIMEOUT       server timeouts and request deadline, default "30s"
//	BCH_STATIC_ROOT           directory served in front of the routes, optional
//	BCH_STATIC_MAX_AGE        Cache-Control max-age for static files, default 0
//	BCH_STATIC_DOTFILES       allow, deny or ignore, default "ignore"
//	BCH_CORS_ORIGINS          comma separated allowed origins, optional
//
// A service embeds [BaseEnvironment] in its own environment type and declares its routes in a
// routing function that fx invokes with whatever it asks for:
//
//	type Env struct {
//	    serve.BaseEnvironment
//	    UpstreamURL string `env:"UPSTREAM_URL,required"`
//	}
//
//	serve.NewApp[Env](func(app *bchain.Application, rt *serve.Runtime[Env]) {
//	    app.Get("/items/:id", func(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
//	        serve.Log(r.Context()).Info("getting item", zap.String("id", r.Param("id")))
//	        return w.JSON(map[string]string{"id": r.Param("id")})
//	    }).Named("get-item")
//	}).Run()
//
// Every request gets a trace-correlated logger through [Log] and a deadline derived from
// BCH_REQUEST_TIMEOUT. Requests to the health and metrics paths are not traced.
package serve
