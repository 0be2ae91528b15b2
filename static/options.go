package static

// Dotfiles decides what happens to requests whose last path segment starts with a dot.
type Dotfiles int

const (
	// Ignore falls through to the next handler as if the file did not exist.
	Ignore Dotfiles = iota
	// Allow serves dotfiles like any other file.
	Allow
	// Deny answers with 403 Forbidden.
	Deny
)

func (d Dotfiles) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "ignore"
	}
}

// ParseDotfiles parses "allow", "deny" or "ignore". Anything else is reported as not ok.
func ParseDotfiles(s string) (Dotfiles, bool) {
	switch s {
	case "allow":
		return Allow, true
	case "deny":
		return Deny, true
	case "ignore", "":
		return Ignore, true
	default:
		return Ignore, false
	}
}

type options struct {
	index    string
	dotfiles Dotfiles
	etag     bool
	maxAge   int
	prefix   string
}

// Option configures the static server.
type Option func(*options)

// WithIndex sets the file served for directory requests. Defaults to "index.html".
func WithIndex(name string) Option {
	return func(o *options) {
		o.index = name
	}
}

// WithoutIndex disables serving index files; directory requests fall through.
func WithoutIndex() Option {
	return func(o *options) {
		o.index = ""
	}
}

// WithDotfiles sets the dotfile policy. Defaults to [Ignore].
func WithDotfiles(d Dotfiles) Option {
	return func(o *options) {
		o.dotfiles = d
	}
}

// WithETag toggles the weak ETag header derived from size and modification time. The header is
// advisory only, conditional requests are not evaluated. Defaults to true.
func WithETag(v bool) Option {
	return func(o *options) {
		o.etag = v
	}
}

// WithMaxAge sets the max-age, in seconds, of a public Cache-Control header. Zero, the default,
// omits the header.
func WithMaxAge(seconds int) Option {
	return func(o *options) {
		o.maxAge = seconds
	}
}

// WithPrefix makes the server only consider request paths under prefix and resolve files
// relative to it, so "/assets/app.css" with prefix "/assets" reads "<root>/app.css".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}
