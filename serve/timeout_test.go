package serve_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advdv/bchain"
	"github.com/advdv/bchain/serve"
	"github.com/advdv/bchain/serve/servetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimeouts(t *testing.T) {
	tests := []struct {
		name              string
		cfg               serve.TimeoutConfig
		wantReadHeader    time.Duration
		wantReadWriteIdle time.Duration
	}{
		{
			name:              "default buffer",
			cfg:               serve.TimeoutConfig{RequestTimeout: 30 * time.Second},
			wantReadHeader:    5 * time.Second,
			wantReadWriteIdle: 29500 * time.Millisecond,
		},
		{
			name:              "custom buffer",
			cfg:               serve.TimeoutConfig{RequestTimeout: 10 * time.Second, DeadlineBuffer: 2 * time.Second},
			wantReadHeader:    5 * time.Second,
			wantReadWriteIdle: 8 * time.Second,
		},
		{
			name:              "short timeout",
			cfg:               serve.TimeoutConfig{RequestTimeout: 3 * time.Second},
			wantReadHeader:    2500 * time.Millisecond,
			wantReadWriteIdle: 2500 * time.Millisecond,
		},
		{
			name:              "buffer larger than timeout",
			cfg:               serve.TimeoutConfig{RequestTimeout: 300 * time.Millisecond},
			wantReadHeader:    300 * time.Millisecond,
			wantReadWriteIdle: 300 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readHeader, read, write, idle := tt.cfg.ServerTimeouts()
			assert.Equal(t, tt.wantReadHeader, readHeader)
			assert.Equal(t, tt.wantReadWriteIdle, read)
			assert.Equal(t, tt.wantReadWriteIdle, write)
			assert.Equal(t, tt.wantReadWriteIdle, idle)
		})
	}
}

func TestWithRequestDeadline(t *testing.T) {
	var remaining time.Duration
	var hasDeadline bool

	probe := bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
		_, hasDeadline = serve.RequestDeadline(r.Context())
		remaining = serve.RequestRemainingTime(r.Context())
		return w.Send("ok")
	})

	t.Run("sets deadline", func(t *testing.T) {
		h := bchain.Compose(serve.WithRequestDeadline(serve.TimeoutConfig{RequestTimeout: 10 * time.Second}), probe)
		rec := servetest.CallHandler(t, h, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hasDeadline)
		assert.Greater(t, remaining, 9*time.Second)
		assert.LessOrEqual(t, remaining, 9500*time.Millisecond)
	})

	t.Run("disabled", func(t *testing.T) {
		h := bchain.Compose(serve.WithRequestDeadline(serve.TimeoutConfig{}), probe)
		rec := servetest.CallHandler(t, h, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, hasDeadline)
		assert.Zero(t, remaining)
	})
}

func TestRequestRemainingTimeExpired(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	assert.Zero(t, serve.RequestRemainingTime(ctx))
	assert.Zero(t, serve.RequestRemainingTime(context.Background()))
}
