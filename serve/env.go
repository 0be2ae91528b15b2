package serve

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	requestTimeout() time.Duration
	staticRoot() string
	staticMaxAge() int
	staticDotfiles() string
	corsOrigins() []string
}

// BaseEnvironment contains the environment variables every bchain service reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port               int           `env:"BCH_PORT,required"`
	ServiceName        string        `env:"BCH_SERVICE_NAME,required"`
	ReadinessCheckPath string        `env:"BCH_READINESS_CHECK_PATH" envDefault:"/health"`
	LogLevel           zapcore.Level `env:"BCH_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"BCH_OTEL_EXPORTER" envDefault:"none"`
	// RequestTimeout bounds both the server timeouts and the deadline of each request context.
	RequestTimeout time.Duration `env:"BCH_REQUEST_TIMEOUT" envDefault:"30s"`
	// StaticRoot, when set, serves the files below it in front of the routes.
	StaticRoot     string   `env:"BCH_STATIC_ROOT"`
	StaticMaxAge   int      `env:"BCH_STATIC_MAX_AGE" envDefault:"0"`
	StaticDotfiles string   `env:"BCH_STATIC_DOTFILES" envDefault:"ignore"`
	CORSOrigins    []string `env:"BCH_CORS_ORIGINS" envSeparator:","`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) readinessCheckPath() string {
	return e.ReadinessCheckPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

func (e BaseEnvironment) staticRoot() string {
	return e.StaticRoot
}

func (e BaseEnvironment) staticMaxAge() int {
	return e.StaticMaxAge
}

func (e BaseEnvironment) staticDotfiles() string {
	return e.StaticDotfiles
}

func (e BaseEnvironment) corsOrigins() []string {
	return lo.Compact(lo.Map(e.CORSOrigins, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
