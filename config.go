package scrub

import "unicode/utf8"

// DefaultMaxBodyLength is the body limit used by DefaultConfig.
const DefaultMaxBodyLength = 1000

// TruncatedMarker is appended to bodies cut at the configured limit.
const TruncatedMarker = "... (truncated)"

// Config holds masking settings. It is an immutable value: build it once
// with NewConfig and share it freely.
type Config struct {
	enabled       bool
	maxBodyLength int
	registry      *Registry
}

// ConfigOption customizes a Config.
type ConfigOption func(*Config)

// WithEnabled turns masking on or off. Disabled configs pass everything
// through unchanged, including truncation.
func WithEnabled(enabled bool) ConfigOption {
	return func(c *Config) {
		c.enabled = enabled
	}
}

// WithMaxBodyLength sets the body truncation limit in bytes. Zero or a
// negative value disables truncation.
func WithMaxBodyLength(n int) ConfigOption {
	return func(c *Config) {
		if n < 0 {
			n = 0
		}
		c.maxBodyLength = n
	}
}

// WithRegistry sets the rule registry. Nil keeps the default registry.
func WithRegistry(reg *Registry) ConfigOption {
	return func(c *Config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...ConfigOption) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DefaultConfig returns an enabled config with a 1000 byte body limit and
// the built-in rules.
func DefaultConfig() Config {
	return Config{
		enabled:       true,
		maxBodyLength: DefaultMaxBodyLength,
		registry:      DefaultRegistry(),
	}
}

// Enabled reports whether masking is on.
func (c Config) Enabled() bool { return c.enabled }

// MaxBodyLength returns the truncation limit; 0 means unlimited.
func (c Config) MaxBodyLength() int { return c.maxBodyLength }

// Registry returns the rule registry. The zero Config yields the default.
func (c Config) Registry() *Registry {
	if c.registry == nil {
		return DefaultRegistry()
	}
	return c.registry
}

// truncate cuts s to the configured limit and appends TruncatedMarker.
// The cut backs off to a rune boundary.
func (c Config) truncate(s string) (string, bool) {
	if c.maxBodyLength <= 0 || len(s) <= c.maxBodyLength {
		return s, false
	}
	cut := c.maxBodyLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncatedMarker, true
}
