package servetest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bchain"
)

// CallHandler runs handler as the only link of a fresh chain and returns the recorded response.
// Errors, whether returned or passed to next, are answered by [bchain.DefaultErrorHandler] and
// reported through a test logger. A handler that falls through gets the default 404.
func CallHandler(tb testing.TB, handler bchain.Handler, req *http.Request) *httptest.ResponseRecorder {
	tb.Helper()

	app := bchain.NewApplication(bchain.WithLogger(bchain.NewTestLogger(tb)))
	app.Use(handler)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	return rec
}
