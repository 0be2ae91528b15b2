package serve_test

import (
	"testing"
	"time"

	"github.com/advdv/bchain/serve"
	"github.com/advdv/bchain/serve/servetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type customEnv struct {
	serve.BaseEnvironment
	UpstreamURL string `env:"UPSTREAM_URL,required"`
}

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("BCH_PORT", "8080")
	t.Setenv("BCH_SERVICE_NAME", "orders")

	env, err := serve.ParseEnv[serve.BaseEnvironment]()()
	require.NoError(t, err)

	assert.Equal(t, 8080, env.Port)
	assert.Equal(t, "orders", env.ServiceName)
	assert.Equal(t, "/health", env.ReadinessCheckPath)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, serve.ExporterNone, env.OtelExporter)
	assert.Equal(t, 30*time.Second, env.RequestTimeout)
	assert.Empty(t, env.StaticRoot)
	assert.Empty(t, env.CORSOrigins)
}

func TestParseEnvRequired(t *testing.T) {
	t.Setenv("BCH_SERVICE_NAME", "orders")

	_, err := serve.ParseEnv[serve.BaseEnvironment]()()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse environment")
	assert.Contains(t, err.Error(), "BCH_PORT")
}

func TestParseCustomEnv(t *testing.T) {
	servetest.SetBaseEnv(t, 8080).CORSOrigins("https://a.example, https://b.example").RequestTimeout("5s")

	_, err := serve.ParseEnv[customEnv]()()
	require.Error(t, err)

	t.Setenv("UPSTREAM_URL", "http://upstream")

	env, err := serve.ParseEnv[customEnv]()()
	require.NoError(t, err)
	assert.Equal(t, "http://upstream", env.UpstreamURL)
	assert.Equal(t, 5*time.Second, env.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", " https://b.example"}, env.CORSOrigins)
}
