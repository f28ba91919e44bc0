package scrub

import (
	"context"
	"fmt"
	"time"
)

// Strategy masks headers, bodies and single values under an explicit Config.
type Strategy interface {
	// MaskHeadersWith replaces the values of sensitive headers.
	MaskHeadersWith(cfg Config, headers map[string][]string) map[string][]string

	// MaskBodyWith masks a body. contentType is an optional hint.
	MaskBodyWith(cfg Config, contentType, body string) string

	// MaskValueWith masks a single value by field name.
	MaskValueWith(cfg Config, fieldName, value string) string
}

// Engine selects a tokenizer for each body, applies truncation and fails
// open: a body no tokenizer can scan is returned as-is (still truncated).
//
// Engines are immutable and safe for concurrent use. Each call acquires
// its own Buffer, so concurrent calls never share scratch space.
type Engine struct {
	cfg        Config
	tokenizers []Tokenizer
}

var _ Strategy = (*Engine)(nil)

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithTokenizers replaces the tokenizer list. Tokenizers are tried in the
// given order and the first whose Supports matches is used.
func WithTokenizers(tokenizers ...Tokenizer) EngineOption {
	return func(e *Engine) {
		e.tokenizers = append([]Tokenizer(nil), tokenizers...)
	}
}

// DefaultTokenizers returns the built-in tokenizers in preference order:
// JSON, then form.
func DefaultTokenizers() []Tokenizer {
	return []Tokenizer{JSONTokenizer{}, FormTokenizer{}}
}

// New creates an engine bound to cfg.
func New(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:        cfg,
		tokenizers: DefaultTokenizers(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New(DefaultConfig())

// Default returns the shared engine using DefaultConfig.
func Default() *Engine {
	return defaultEngine
}

// Config returns the engine's config.
func (e *Engine) Config() Config {
	return e.cfg
}

// MaskHeaders masks headers under the engine's config.
func (e *Engine) MaskHeaders(headers map[string][]string) map[string][]string {
	return e.maskHeaders(context.Background(), e.cfg, headers)
}

// MaskHeadersContext is MaskHeaders with a context for emitted signals.
func (e *Engine) MaskHeadersContext(ctx context.Context, headers map[string][]string) map[string][]string {
	return e.maskHeaders(ctx, e.cfg, headers)
}

// MaskHeadersWith implements Strategy.
//
// Any header whose name matches a rule gets the single value Redacted,
// whatever the rule's type: partial masks never apply to headers. Other
// headers keep their original value slices. The result has the same keys;
// the input map is not modified.
func (e *Engine) MaskHeadersWith(cfg Config, headers map[string][]string) map[string][]string {
	return e.maskHeaders(context.Background(), cfg, headers)
}

func (e *Engine) maskHeaders(ctx context.Context, cfg Config, headers map[string][]string) map[string][]string {
	if len(headers) == 0 || !cfg.enabled {
		return headers
	}

	reg := cfg.Registry()
	out := make(map[string][]string, len(headers))
	masked := 0
	for name, values := range headers {
		if reg.IsSensitive(name) {
			out[name] = []string{Redacted}
			masked++
			continue
		}
		out[name] = values
	}

	if masked > 0 {
		emitHeadersMasked(ctx, masked)
	}
	return out
}

// MaskBody masks a body under the engine's config.
func (e *Engine) MaskBody(body string) string {
	return e.maskBody(context.Background(), e.cfg, "", body)
}

// MaskBodyType masks a body with a content type hint.
func (e *Engine) MaskBodyType(contentType, body string) string {
	return e.maskBody(context.Background(), e.cfg, contentType, body)
}

// MaskBodyContext is MaskBodyType with a context for emitted signals.
// The context carries no deadline semantics; masking never blocks.
func (e *Engine) MaskBodyContext(ctx context.Context, contentType, body string) string {
	return e.maskBody(ctx, e.cfg, contentType, body)
}

// MaskBodyWith implements Strategy.
//
// Disabled configs and empty bodies are returned unchanged. Otherwise the
// first tokenizer that supports the body masks it; if it fails the next
// one is tried, and if none succeeds the original body is used. The result
// is then truncated to cfg.MaxBodyLength, whichever path produced it.
func (e *Engine) MaskBodyWith(cfg Config, contentType, body string) string {
	return e.maskBody(context.Background(), cfg, contentType, body)
}

func (e *Engine) maskBody(ctx context.Context, cfg Config, contentType, body string) string {
	if body == "" || !cfg.enabled {
		return body
	}

	result := body
	if !isBinaryContentType(contentType) {
		result = e.tokenize(ctx, cfg, contentType, body)
	}

	if out, cut := cfg.truncate(result); cut {
		emitBodyTruncated(ctx, len(result), cfg.maxBodyLength)
		result = out
	}
	return result
}

// tokenize runs the tokenizer chain and returns body when every candidate fails.
func (e *Engine) tokenize(ctx context.Context, cfg Config, contentType, body string) string {
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)

	reg := cfg.Registry()
	for _, t := range e.tokenizers {
		if !t.Supports(contentType, body) {
			continue
		}

		buf.Reset()
		start := time.Now()
		masked, err := safeMask(t, body, reg, buf)
		if err != nil {
			emitBodyDegraded(ctx, t.Name(), contentType, len(body), err)
			continue
		}

		emitBodyMasked(ctx, t.Name(), contentType, len(body), time.Since(start))
		return masked
	}
	return body
}

// safeMask runs t.Mask and converts a panic into a ParseError, so a faulty
// custom tokenizer degrades like any other failure.
func safeMask(t Tokenizer, body string, reg *Registry, buf *Buffer) (masked string, err error) {
	defer func() {
		if r := recover(); r != nil {
			masked = ""
			err = newParseError(t.Name(), 0, fmt.Sprintf("panic: %v", r))
		}
	}()
	return t.Mask(body, reg, buf)
}

// MaskValue masks a single value under the engine's config.
func (e *Engine) MaskValue(fieldName, value string) string {
	return e.MaskValueWith(e.cfg, fieldName, value)
}

// MaskValueWith implements Strategy. Values without a matching rule, and
// all values under a disabled config, are returned unchanged.
func (e *Engine) MaskValueWith(cfg Config, fieldName, value string) string {
	if value == "" || !cfg.enabled {
		return value
	}
	rule := cfg.Registry().FindRule(fieldName)
	if rule == nil {
		return value
	}
	return rule.Apply(value)
}
