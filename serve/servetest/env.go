package servetest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [serve.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [serve.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BCH_SERVICE_NAME: "test"
//   - BCH_READINESS_CHECK_PATH: "/health"
//   - BCH_LOG_LEVEL: "error"
//   - BCH_OTEL_EXPORTER: "none"
//   - BCH_REQUEST_TIMEOUT: "30s"
//   - BCH_STATIC_ROOT, BCH_CORS_ORIGINS: empty
//
// Use the returned [Env] to override individual values:
//
//	servetest.SetBaseEnv(t, 18085).ServiceName("orders").StaticRoot(dir)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BCH_PORT", strconv.Itoa(port))
	t.Setenv("BCH_SERVICE_NAME", "test")
	t.Setenv("BCH_READINESS_CHECK_PATH", "/health")
	t.Setenv("BCH_LOG_LEVEL", "error")
	t.Setenv("BCH_OTEL_EXPORTER", "none")
	t.Setenv("BCH_REQUEST_TIMEOUT", "30s")
	t.Setenv("BCH_STATIC_ROOT", "")
	t.Setenv("BCH_STATIC_MAX_AGE", "0")
	t.Setenv("BCH_STATIC_DOTFILES", "ignore")
	t.Setenv("BCH_CORS_ORIGINS", "")
	return &Env{t: t}
}

// ServiceName overrides BCH_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BCH_SERVICE_NAME", name)
	return e
}

// ReadinessCheckPath overrides BCH_READINESS_CHECK_PATH.
func (e *Env) ReadinessCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BCH_READINESS_CHECK_PATH", path)
	return e
}

// RequestTimeout overrides BCH_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("BCH_REQUEST_TIMEOUT", d)
	return e
}

// StaticRoot overrides BCH_STATIC_ROOT.
func (e *Env) StaticRoot(dir string) *Env {
	e.t.Helper()
	e.t.Setenv("BCH_STATIC_ROOT", dir)
	return e
}

// CORSOrigins overrides BCH_CORS_ORIGINS.
func (e *Env) CORSOrigins(origins string) *Env {
	e.t.Helper()
	e.t.Setenv("BCH_CORS_ORIGINS", origins)
	return e
}
