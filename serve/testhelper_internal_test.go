package serve

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
	timeout time.Duration
	root    string
	origins []string
}

func (e testEnv) port() int                  { return 8080 }
func (e testEnv) serviceName() string        { return "test" }
func (e testEnv) readinessCheckPath() string { return "/health" }
func (e testEnv) logLevel() zapcore.Level    { return e.level }
func (e testEnv) otelExporter() string       { return e.otelExp }
func (e testEnv) requestTimeout() time.Duration {
	if e.timeout == 0 {
		return 30 * time.Second
	}
	return e.timeout
}
func (e testEnv) staticRoot() string     { return e.root }
func (e testEnv) staticMaxAge() int      { return 0 }
func (e testEnv) staticDotfiles() string { return "ignore" }
func (e testEnv) corsOrigins() []string  { return e.origins }
