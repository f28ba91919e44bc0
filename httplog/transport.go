// Package httplog provides an http.RoundTripper that logs outgoing
// requests and their responses with credentials and personal data masked.
//
//	client := &http.Client{
//	    Transport: httplog.New(httplog.WithLogger(log)),
//	}
//
// Lines are written at debug level; with debug disabled the transport adds
// no work beyond a level check. Bodies are restored after reading, so the
// wrapped transport and the caller see exactly what they would without it.
// Streaming responses such as text/event-stream are never read: only their
// status and headers are logged, with body_skipped set.
package httplog

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zoobzio/scrub"
)

// DefaultRequestIDHeader carries the request id to the server.
const DefaultRequestIDHeader = "X-Request-Id"

// Transport logs masked request and response lines around a base transport.
type Transport struct {
	base            http.RoundTripper
	logger          zerolog.Logger
	engine          *scrub.Engine
	requestIDHeader string
	logBodies       bool
}

// Option customizes a Transport.
type Option func(*Transport)

// WithBase sets the wrapped transport. Nil keeps http.DefaultTransport.
func WithBase(base http.RoundTripper) Option {
	return func(t *Transport) {
		if base != nil {
			t.base = base
		}
	}
}

// WithLogger sets the destination logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithEngine sets the masking engine. Nil keeps scrub.Default().
func WithEngine(engine *scrub.Engine) Option {
	return func(t *Transport) {
		if engine != nil {
			t.engine = engine
		}
	}
}

// WithRequestIDHeader sets the header used to read or attach a request id.
// An empty name disables request id propagation; ids are still logged.
func WithRequestIDHeader(name string) Option {
	return func(t *Transport) {
		t.requestIDHeader = name
	}
}

// WithBodies turns body logging on or off. Headers and URLs are always logged.
func WithBodies(enabled bool) Option {
	return func(t *Transport) {
		t.logBodies = enabled
	}
}

// New creates a Transport. Without options it wraps http.DefaultTransport,
// masks with scrub.Default() and logs nowhere.
func New(opts ...Option) *Transport {
	t := &Transport{
		base:            http.DefaultTransport,
		logger:          zerolog.Nop(),
		engine:          scrub.Default(),
		requestIDHeader: DefaultRequestIDHeader,
		logBodies:       true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewClient returns an http.Client using a new Transport.
func NewClient(opts ...Option) *http.Client {
	return &http.Client{Transport: New(opts...)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.logger.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	req = req.Clone(ctx)

	requestID := ""
	if t.requestIDHeader != "" {
		requestID = req.Header.Get(t.requestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.New().String()
		if t.requestIDHeader != "" {
			req.Header.Set(t.requestIDHeader, requestID)
		}
	}
	log := t.logger.With().Str("request_id", requestID).Logger()

	event := log.Debug().
		Str("method", req.Method).
		Str("url", t.engine.MaskURL(req.URL.String())).
		Interface("headers", t.engine.MaskHeadersContext(ctx, req.Header))
	if t.logBodies && req.Body != nil && req.Body != http.NoBody {
		var body []byte
		body, req.Body = t.drain(log, "request", req.Body)
		event = event.Str("body", t.engine.MaskBodyContext(ctx, req.Header.Get("Content-Type"), string(body)))
	}
	event.Msg("HTTP Request")

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		log.Debug().
			Err(err).
			Dur("duration", duration).
			Msg("HTTP Response")
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	event = log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Interface("headers", t.engine.MaskHeadersContext(ctx, resp.Header))
	switch {
	case !t.logBodies || resp.Body == nil:
	case scrub.IsStreamingContentType(contentType):
		// Streams are handed on untouched.
		event = event.Bool("body_skipped", true)
	case scrub.IsTextContentType(contentType):
		var body []byte
		body, resp.Body = t.drain(log, "response", resp.Body)
		event = event.Str("body", t.engine.MaskBodyContext(ctx, contentType, string(body)))
	}
	event.Msg("HTTP Response")

	return resp, nil
}

// drain reads rc fully and returns its bytes with a replacement body that
// yields the same bytes. A read error is logged and replayed to whoever
// reads the replacement after the bytes that were read.
func (*Transport) drain(log zerolog.Logger, kind string, rc io.ReadCloser) ([]byte, io.ReadCloser) {
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		log.Warn().Err(err).Str("body", kind).Msg("Failed to read body for logging")
		return body, io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err: err}))
	}
	return body, io.NopCloser(bytes.NewReader(body))
}

// errReader fails every read with err.
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
