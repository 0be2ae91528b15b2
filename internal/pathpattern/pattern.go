// Package pathpattern implements the segment-walk matcher for route patterns of
// the form "/users/:id/posts/:slug".
package pathpattern

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// Params maps parameter names to the literal path segment they matched.
type Params map[string]string

type segment struct {
	lit   string
	param string
}

func (s segment) isParam() bool { return s.param != "" }

// Pattern is a parsed route pattern. The zero value is the root pattern.
type Pattern struct {
	raw  string
	segs []segment
}

// Parse normalizes s and splits it into literal and parameter segments. It never fails: any
// string is a valid pattern once normalized.
func Parse(s string) Pattern {
	norm := Normalize(s)

	parts := split(norm)
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if len(p) > 1 && p[0] == ':' {
			segs = append(segs, segment{param: p[1:]})
			continue
		}

		segs = append(segs, segment{lit: p})
	}

	return Pattern{raw: norm, segs: segs}
}

// String returns the normalized pattern.
func (p Pattern) String() string {
	if p.raw == "" {
		return "/"
	}

	return p.raw
}

// IsRoot reports whether the pattern is "/".
func (p Pattern) IsRoot() bool { return len(p.segs) == 0 }

// Names returns the parameter names in the order they appear.
func (p Pattern) Names() []string {
	var names []string
	for _, s := range p.segs {
		if s.isParam() {
			names = append(names, s.param)
		}
	}

	return names
}

// Join returns a pattern that matches base followed by p. It is used to re-prepend the base
// path of a mounted router to each of its routes at match time.
func Join(base, p Pattern) Pattern {
	if base.IsRoot() {
		return p
	}

	if p.IsRoot() {
		return base
	}

	segs := make([]segment, 0, len(base.segs)+len(p.segs))
	segs = append(segs, base.segs...)
	segs = append(segs, p.segs...)

	return Pattern{raw: base.String() + p.String(), segs: segs}
}

// Match reports whether the concrete path matches the pattern and returns the parameter
// bindings. Params are only returned on a total match.
func (p Pattern) Match(path string) (Params, bool) {
	parts := split(Normalize(path))
	if len(parts) != len(p.segs) {
		return nil, false
	}

	var params Params
	for i, s := range p.segs {
		if !s.isParam() {
			if parts[i] != s.lit {
				return nil, false
			}

			continue
		}

		if params == nil {
			params = make(Params, len(p.segs))
		}

		if _, exists := params[s.param]; !exists {
			params[s.param] = parts[i]
		}
	}

	if params == nil {
		params = Params{}
	}

	return params, true
}

// MatchPrefix is like Match but only requires the leading segments of path to match, so the
// pattern "/api/:version" matches "/api/v1/items" and "/api/v1" but not "/apix".
func (p Pattern) MatchPrefix(path string) (Params, bool) {
	parts := split(Normalize(path))
	if len(parts) < len(p.segs) {
		return nil, false
	}

	return Pattern{segs: p.segs}.Match("/" + strings.Join(parts[:len(p.segs)], "/"))
}

// Match parses pattern and matches it against path.
func Match(pattern, path string) (Params, bool) {
	return Parse(pattern).Match(path)
}

// HasPrefix reports whether the normalized path lies at or below the normalized prefix, comparing
// whole segments so that "/apix" is not under "/api".
func HasPrefix(path, prefix string) bool {
	path, prefix = Normalize(path), Normalize(prefix)
	if prefix == "/" {
		return true
	}

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Normalize ensures a single leading slash and strips one trailing slash, unless the result
// would be the root path. The empty string normalizes to "/".
func Normalize(s string) string {
	if s == "" || s == "/" {
		return "/"
	}

	if s[0] != '/' {
		s = "/" + s
	}

	if len(s) > 1 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}

	if s == "" {
		return "/"
	}

	return s
}

// Build substitutes vals, in order, for the parameter segments of p. Values are path-escaped.
func Build(p Pattern, vals ...string) (string, error) {
	names := p.Names()
	if len(vals) < len(names) {
		return "", errors.Newf("not enough values for pattern %q: want %d, got %d", p.String(), len(names), len(vals))
	}

	if len(vals) > len(names) {
		return "", errors.Newf("too many values for pattern %q: want %d, got %d", p.String(), len(names), len(vals))
	}

	if p.IsRoot() {
		return "/", nil
	}

	var b strings.Builder
	var i int
	for _, s := range p.segs {
		b.WriteByte('/')
		if s.isParam() {
			b.WriteString(url.PathEscape(vals[i]))
			i++

			continue
		}

		b.WriteString(s.lit)
	}

	return b.String(), nil
}

// split returns the non-empty "/"-delimited segments of s.
func split(s string) []string {
	parts := strings.Split(s, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
