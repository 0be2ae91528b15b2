// Package static serves files from a directory as a [bchain.Handler].
//
// The handler only answers GET and HEAD requests for files that exist below its root. Everything
// else falls through to the next handler, so it can be installed as application-wide middleware
// in front of the routes:
//
//	app := bchain.NewApplication()
//	app.Use(static.New("./public", static.WithMaxAge(3600)))
//
// Request paths are decoded and checked for parent-directory segments before the filesystem is
// touched. Such requests fail with [ErrPathTraversal] instead of being clamped to the root.
package static

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/advdv/bchain"
	"github.com/advdv/bchain/internal/pathpattern"
	"github.com/cockroachdb/errors"
)

// ErrPathTraversal is passed to next for request paths that would resolve outside the root.
var ErrPathTraversal = errors.New("static: path traversal attempt")

// Server is the static file handler.
type Server struct {
	root string
	opts options
}

// New returns a handler serving files below root. It panics if root cannot be made absolute.
func New(root string, opts ...Option) *Server {
	o := options{index: "index.html", dotfiles: Ignore, etag: true}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		panic("static: invalid root: " + err.Error())
	}

	return &Server{root: filepath.Clean(abs), opts: o}
}

// Root returns the absolute directory files are served from.
func (s *Server) Root() string { return s.root }

// ServeChain implements [bchain.Handler].
func (s *Server) ServeChain(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		next(nil)
		return nil
	}

	reqPath := r.Path
	if s.opts.prefix != "" {
		prefix := pathpattern.Normalize(s.opts.prefix)
		if !pathpattern.HasPrefix(reqPath, prefix) {
			next(nil)
			return nil
		}

		if prefix != "/" {
			reqPath = strings.TrimPrefix(reqPath, prefix)
		}
	}

	rel, err := Sanitize(reqPath)
	if err != nil {
		next(err)
		return nil
	}

	full, err := s.resolve(rel)
	if err != nil {
		next(err)
		return nil
	}

	if base := path.Base(rel); rel != "/" && strings.HasPrefix(base, ".") {
		switch s.opts.dotfiles {
		case Deny:
			return bchain.WriteError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		case Ignore:
			next(nil)
			return nil
		case Allow:
		}
	}

	info, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		next(nil)
		return nil
	case err != nil:
		next(errors.Wrapf(err, "static: failed to stat %q", rel))
		return nil
	}

	if info.IsDir() {
		if s.opts.index == "" {
			next(nil)
			return nil
		}

		full = filepath.Join(full, s.opts.index)

		info, err = os.Stat(full)
		if err != nil || !info.Mode().IsRegular() {
			next(nil)
			return nil
		}
	}

	if !info.Mode().IsRegular() {
		next(nil)
		return nil
	}

	s.serveFile(w, r, next, full, info)

	return nil
}

// Sanitize decodes an escaped request path and returns it cleaned. Any ".." segment in the
// decoded path, however it was encoded, is rejected with [ErrPathTraversal].
func Sanitize(escaped string) (string, error) {
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return "", bchain.NewError(bchain.CodeBadRequest, errors.Wrap(err, "static: malformed path"))
	}

	if strings.IndexByte(decoded, 0) >= 0 {
		return "", errors.Wrap(ErrPathTraversal, "null byte in path")
	}

	for _, seg := range strings.FieldsFunc(decoded, isSeparator) {
		if seg == ".." {
			return "", errors.Wrapf(ErrPathTraversal, "%q", decoded)
		}
	}

	return path.Clean("/" + strings.ReplaceAll(decoded, `\`, "/")), nil
}

func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// resolve joins a sanitized path onto the root and verifies the result did not leave it.
func (s *Server) resolve(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	inside, err := filepath.Rel(s.root, full)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrPathTraversal, "%q resolves outside root", rel)
	}

	return full, nil
}

// openFile is replaced in tests to simulate read failures.
var openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }

func (s *Server) serveFile(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next, full string, info fs.FileInfo) {
	if r.Method == http.MethodHead {
		info, err := os.Stat(full)
		if err != nil {
			next(errors.Wrap(err, "static: failed to stat for HEAD"))
			return
		}

		s.setHeaders(w.Header(), full, info)
		if err := w.End(); err != nil {
			next(err)
		}

		return
	}

	f, err := openFile(full)
	if err != nil {
		next(errors.Wrap(err, "static: failed to open file"))
		return
	}
	defer f.Close()

	s.setHeaders(w.Header(), full, info)

	if _, err := io.Copy(w, &ctxReader{ctx: r.Context(), r: f}); err != nil {
		if r.Context().Err() != nil {
			return // client went away, nothing left to answer
		}

		next(errors.Wrap(err, "static: failed to stream file"))

		return
	}

	if err := w.End(); err != nil {
		next(err)
	}
}

// setHeaders is only called once the file is known to be readable, so error responses never
// carry caching headers.
func (s *Server) setHeaders(h http.Header, full string, info fs.FileInfo) {
	h.Set("Content-Type", ContentType(full))
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))

	if s.opts.maxAge > 0 {
		h.Set("Cache-Control", "public, max-age="+strconv.Itoa(s.opts.maxAge))
	}

	if s.opts.etag {
		h.Set("ETag", etag(info))
	}
}

func etag(info fs.FileInfo) string {
	return `W/"` + strconv.FormatInt(info.Size(), 16) + "-" + strconv.FormatInt(info.ModTime().UnixNano(), 16) + `"`
}

// ctxReader stops reading once the request context is done.
type ctxReader struct {
	ctx context.Context //nolint:containedctx
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}

var _ bchain.Handler = &Server{}
