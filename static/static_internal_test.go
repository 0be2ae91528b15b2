package static

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/advdv/bchain"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskGone = errors.New("disk gone")

type failingFile struct {
	r io.Reader
}

func (f *failingFile) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if errors.Is(err, io.EOF) {
		return n, errDiskGone
	}

	return n, err
}

func (f *failingFile) Close() error { return nil }

func withOpenFile(t *testing.T, fn func(string) (io.ReadCloser, error)) {
	t.Helper()

	orig := openFile
	openFile = fn
	t.Cleanup(func() { openFile = orig })
}

func serveInternal(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, []error) {
	t.Helper()

	var errs []error
	app := bchain.NewApplication(bchain.WithLogger(bchain.NewTestLogger(t)))
	app.Use(srv)
	app.SetErrorHandler(func(w bchain.ResponseWriter, r *bchain.Request, err error) {
		errs = append(errs, err)
		bchain.DefaultErrorHandler(w, r, err)
	})

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec, errs
}

func newTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte(strings.Repeat("x", 64)), 0o600))

	return dir
}

func TestOpenFailure(t *testing.T) {
	withOpenFile(t, func(string) (io.ReadCloser, error) {
		return nil, os.ErrPermission
	})

	rec, errs := serveInternal(t, New(newTree(t), WithMaxAge(60)), "/big.txt")
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], os.ErrPermission))
	assert.Contains(t, errs[0].Error(), "static: failed to open file")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestStreamFailureAfterBytesWritten(t *testing.T) {
	withOpenFile(t, func(string) (io.ReadCloser, error) {
		return &failingFile{r: strings.NewReader("partial")}, nil
	})

	rec, errs := serveInternal(t, New(newTree(t)), "/big.txt")
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], errDiskGone))
	assert.Contains(t, errs[0].Error(), "static: failed to stream file")

	// headers and the first bytes already went out, the error terminal can only end the response
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
