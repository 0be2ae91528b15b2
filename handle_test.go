package bchain_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bchain"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func handleGreeting(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
	w.Header().Set("Is-Bar", "rab")
	w.WriteHeader(http.StatusCreated)

	fmt.Fprintf(w, `hello %s, at %s`, r.Param("name"), r.Path)

	return w.End()
}

func TestHandleBasic(t *testing.T) {
	logs := bchain.NewTestLogger(t)
	app := bchain.NewApplication(bchain.WithLogger(logs))
	app.Get("/greet/:name", handleGreeting)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/greet/foo", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, `rab`, rec.Header().Get("Is-Bar"))
	require.Equal(t, `hello foo, at /greet/foo`, rec.Body.String())
	require.Zero(t, logs.NumLogUnhandledServeError)
}

func TestHandleDefaultError(t *testing.T) {
	logs := bchain.NewTestLogger(t)
	app := bchain.NewApplication(bchain.WithLogger(logs))
	app.Get("/trigger-error", func(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
		w.Header().Set("Is-Bar", "rab")
		return errors.New("triggered error")
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trigger-error", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, `Internal Server Error`+"\n", rec.Body.String())
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}

func TestHandleErrorWithCode(t *testing.T) {
	app := bchain.NewApplication(bchain.WithLogger(bchain.NewTestLogger(t)))
	app.Get("/protected", func(_ bchain.ResponseWriter, _ *bchain.Request, next bchain.Next) error {
		next(bchain.NewError(bchain.CodeUnauthorized, errors.New("missing token")))
		return nil
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/protected", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Unauthorized\n", rec.Body.String())
}

func TestHandleStd(t *testing.T) {
	app := bchain.NewApplication()
	app.Handle(http.MethodGet, "/std", bchain.StdFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "std:%s", r.URL.Path)
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/std", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "std:/std", rec.Body.String())
}

func TestHandleStdErrorOwnership(t *testing.T) {
	logs := bchain.NewTestLogger(t)
	app := bchain.NewApplication(bchain.WithLogger(logs))
	app.Handle(http.MethodGet, "/teapot", bchain.StdFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "custom error", http.StatusTeapot)
	}))

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "custom error\n", rec.Body.String())
	require.Zero(t, logs.NumLogUnhandledServeError)
}

func TestHandleStdMiddlewareApplied(t *testing.T) {
	app := bchain.NewApplication()
	app.UseFunc(func(_ bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		r.Payload = "bar"
		next(nil)

		return nil
	})

	app.Get("/payload", func(w bchain.ResponseWriter, r *bchain.Request, _ bchain.Next) error {
		return w.Send(fmt.Sprintf("val:%v", r.Payload))
	})

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payload", nil)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "val:bar", rec.Body.String())
}
