package bchain

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(tb testing.TB, strict bool) (*response, *httptest.ResponseRecorder, *TestLogger) {
	tb.Helper()

	logs := NewTestLogger(tb)
	rec := httptest.NewRecorder()

	return newResponse(rec, &Config{Logger: logs, StrictWrites: strict}), rec, logs
}

func TestResponseSend(t *testing.T) {
	resp, rec, _ := newTestResponse(t, false)

	require.False(t, resp.HeadersSent())
	require.NoError(t, resp.Status(http.StatusCreated).Send("hello"))
	assert.True(t, resp.HeadersSent())
	assert.True(t, resp.Ended())
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestResponseJSON(t *testing.T) {
	resp, rec, _ := newTestResponse(t, false)

	require.NoError(t, resp.JSON(map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	resp, _, _ = newTestResponse(t, false)
	require.Error(t, resp.JSON(make(chan int)))
	assert.False(t, resp.Ended())
}

func TestResponseStatusAfterHeaders(t *testing.T) {
	resp, rec, _ := newTestResponse(t, false)

	resp.WriteHeader(http.StatusAccepted)
	resp.WriteHeader(http.StatusTeapot)
	resp.Status(http.StatusBadGateway)

	_, err := resp.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, resp.End())

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode())
}

func TestResponseWriteAfterEnd(t *testing.T) {
	resp, rec, logs := newTestResponse(t, false)

	require.NoError(t, resp.Send("once"))

	err := resp.Send("twice")
	require.ErrorIs(t, err, ErrResponseEnded)
	require.Contains(t, err.Error(), "send after end")

	_, err = resp.Write([]byte("again"))
	require.ErrorIs(t, err, ErrResponseEnded)
	require.ErrorIs(t, resp.End(), ErrResponseEnded)

	assert.Equal(t, "once", rec.Body.String())
	assert.Equal(t, int64(3), logs.NumLogResponseMisuse)
}

func TestResponseStrictWrites(t *testing.T) {
	resp, _, logs := newTestResponse(t, true)

	require.NoError(t, resp.End())
	require.Panics(t, func() { _ = resp.Send("boom") })
	assert.Equal(t, int64(1), logs.NumLogResponseMisuse)
}

func TestStrictWritesSurviveDispatch(t *testing.T) {
	app := NewApplication(WithLogger(NewTestLogger(t)), WithStrictWrites(true))
	app.Get("/", func(w ResponseWriter, _ *Request, _ Next) error {
		_ = w.Send("first")
		return w.Send("second")
	})

	require.Panics(t, func() {
		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestResponseDetached(t *testing.T) {
	resp, rec, logs := newTestResponse(t, false)
	resp.detach()

	require.ErrorIs(t, resp.Send("late"), ErrResponseDetached)
	assert.True(t, resp.Ended())
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, logs.NumLogResponseMisuse)

	resp.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseUnwrap(t *testing.T) {
	resp, rec, _ := newTestResponse(t, false)
	assert.Same(t, rec, resp.Unwrap())

	resp.Flush()
	assert.True(t, rec.Flushed)
	assert.True(t, resp.HeadersSent())

	_, _, err := resp.Hijack()
	require.Error(t, err)
}

func TestErrorHelper(t *testing.T) {
	resp, rec, _ := newTestResponse(t, false)
	resp.Header().Set("Content-Length", "999")

	require.NoError(t, WriteError(resp, "nope", http.StatusForbidden))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "nope\n", rec.Body.String())
	assert.Equal(t, strconv.Itoa(len("nope\n")), rec.Header().Get("Content-Length"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestNewRequest(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/a%2Fb/c/?x=1&x=2&y=", nil)
	req := newRequest(hr, nil)

	assert.Equal(t, "/a%2Fb/c", req.Path)
	assert.Equal(t, map[string]string{"x": "1", "y": ""}, req.Query)
	assert.Empty(t, req.Params)
	assert.Nil(t, req.Payload)
	assert.NotNil(t, req.config().Logger)
}

func BenchmarkDispatch(b *testing.B) {
	app := NewApplication(WithLogger(NewTestLogger(b)))
	for i := range 50 {
		app.Get("/r"+strconv.Itoa(i)+"/:id", func(w ResponseWriter, _ *Request, _ Next) error {
			return w.End()
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/r49/123", nil)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		app.ServeHTTP(httptest.NewRecorder(), req)
	}
}
