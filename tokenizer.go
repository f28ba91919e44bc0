package scrub

import "strings"

// Tokenizer scans one body format and masks sensitive values in place.
type Tokenizer interface {
	// Name identifies the tokenizer in signals and errors (e.g., "json").
	Name() string

	// Supports reports whether body looks like this tokenizer's format.
	// contentType is an optional hint and may be empty.
	Supports(contentType, body string) bool

	// Mask returns body with every value matched by reg masked.
	// buf is cleared by the caller and owned by this call.
	// A non-nil error means the body could not be scanned; the caller
	// decides what to log instead.
	Mask(body string, reg *Registry, buf *Buffer) (string, error)
}

// mediaType returns the lower-case type/subtype of a Content-Type value.
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// isJSONContentType matches application/json and +json suffixes.
func isJSONContentType(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json") || strings.HasSuffix(mt, "/json")
}

// isFormContentType matches urlencoded form bodies.
func isFormContentType(contentType string) bool {
	return mediaType(contentType) == "application/x-www-form-urlencoded"
}

// isBinaryContentType matches bodies that are never scanned.
func isBinaryContentType(contentType string) bool {
	mt := mediaType(contentType)
	switch {
	case mt == "":
		return false
	case strings.HasPrefix(mt, "image/"),
		strings.HasPrefix(mt, "audio/"),
		strings.HasPrefix(mt, "video/"),
		strings.HasPrefix(mt, "multipart/"),
		mt == "application/octet-stream":
		return true
	}
	return false
}

// IsStreamingContentType reports whether a body of this type is delivered
// incrementally (text/event-stream, application/x-ndjson+stream, ...) and
// must not be read to the end before it is handed on.
func IsStreamingContentType(contentType string) bool {
	return strings.Contains(mediaType(contentType), "stream")
}

// IsTextContentType reports whether a body of this type is worth logging:
// text/*, JSON, XML, HTML and urlencoded forms.
func IsTextContentType(contentType string) bool {
	mt := mediaType(contentType)
	if strings.HasPrefix(mt, "text/") {
		return true
	}
	_, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return false
	}
	switch {
	case sub == "json", strings.HasSuffix(sub, "+json"),
		sub == "xml", strings.HasSuffix(sub, "+xml"),
		sub == "html",
		sub == "x-www-form-urlencoded":
		return true
	}
	return false
}
