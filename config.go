package bchain

// Config is threaded into every application and router at construction time. There is no
// package-level state that influences how requests are handled.
type Config struct {
	// Logger receives unhandled errors and contract violations.
	Logger Logger

	// StrictWrites turns writes to an ended response into a panic instead of a logged error.
	// Meant for development builds.
	StrictWrites bool
}

// Option configures an [Application] or [Router].
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithStrictWrites enables or disables panicking on writes after the response ended.
func WithStrictWrites(v bool) Option {
	return func(c *Config) {
		c.StrictWrites = v
	}
}

func defaultConfig() *Config {
	return &Config{Logger: NewStdLogger(nil)}
}

func newConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = NewStdLogger(nil)
	}

	return cfg
}
