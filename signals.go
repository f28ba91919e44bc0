package scrub

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for masking events.
var (
	SignalBodyMasked    = capitan.NewSignal("scrub.body.masked", "Body masked by a tokenizer")
	SignalBodyDegraded  = capitan.NewSignal("scrub.body.degraded", "Tokenizer failed; body logged without masking")
	SignalBodyTruncated = capitan.NewSignal("scrub.body.truncated", "Body cut at the configured limit")
	SignalHeadersMasked = capitan.NewSignal("scrub.headers.masked", "Sensitive headers replaced")
)

// Keys for typed event data.
var (
	KeyTokenizer   = capitan.NewStringKey("tokenizer")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyLimit       = capitan.NewIntKey("limit")
	KeyMaskedCount = capitan.NewIntKey("masked_count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitBodyMasked emits an event when a tokenizer finished a body.
func emitBodyMasked(ctx context.Context, tokenizer, contentType string, size int, duration time.Duration) {
	capitan.Emit(ctx, SignalBodyMasked,
		KeyTokenizer.Field(tokenizer),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	)
}

// emitBodyDegraded emits an error event when a tokenizer gave up. The body
// that follows is not masked by that tokenizer.
func emitBodyDegraded(ctx context.Context, tokenizer, contentType string, size int, err error) {
	capitan.Error(ctx, SignalBodyDegraded,
		KeyTokenizer.Field(tokenizer),
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyError.Field(err),
	)
}

// emitBodyTruncated emits an event when a body exceeded the limit.
func emitBodyTruncated(ctx context.Context, size, limit int) {
	capitan.Emit(ctx, SignalBodyTruncated,
		KeySize.Field(size),
		KeyLimit.Field(limit),
	)
}

// emitHeadersMasked emits an event when at least one header was replaced.
func emitHeadersMasked(ctx context.Context, masked int) {
	capitan.Emit(ctx, SignalHeadersMasked,
		KeyMaskedCount.Field(masked),
	)
}
