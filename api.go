// Package scrub masks credentials, tokens and personal data in HTTP headers
// and bodies before they reach a log sink.
//
// Bodies are scanned in a single pass; nothing is decoded into a document
// model and every non-sensitive byte is copied through unchanged.
//
// # Rules
//
// A Rule names a sensitive field, lists its aliases and says how values are
// masked:
//
//	card := scrub.NewRule("card").
//	    Fields("card", "card_no").
//	    Type(scrub.MaskPartial).
//	    KeepPrefix(4).
//	    KeepSuffix(4).
//	    MinLength(8).
//	    MustBuild()
//
// Mask types:
//
//   - full: the value becomes ***MASKED***
//   - partial: prefix and suffix stay visible, the middle is masked
//   - digest: the value becomes a short BLAKE2b fingerprint
//
// Built-in rules (DefaultRules):
//
//   - phone: 13800138000 → 138****8000
//   - idcard: 110101199001011234 → 110101********1234
//   - email: john@example.com → jo*n@example.com
//   - token: password, token, secret, authorization, cookie, ... → ***MASKED***
//
// # Tokenizers
//
// The Engine tries tokenizers in order, JSON before form, and uses the
// first whose Supports matches. JSON values of sensitive fields are masked
// at any depth; numbers, booleans and null pass through. Form bodies mask
// alias=value pairs.
//
// # Fail-open
//
// If no tokenizer can scan a body it is returned unmasked rather than
// dropped. Every such case emits SignalBodyDegraded through capitan.
//
// # Basic Usage
//
//	engine := scrub.New(scrub.NewConfig(scrub.WithMaxBodyLength(4096)))
//
//	engine.MaskHeaders(req.Header)              // Authorization: [***MASKED***]
//	engine.MaskBody(`{"password":"s3cr3t"}`)    // {"password":"***MASKED***"}
//	engine.MaskValue("phone", "13800138000")    // 138****8000
//	engine.MaskURL("/v1?api_key=abc&page=2")    // /v1?api_key=***&page=2
//
// # Struct tags
//
// RegistryFor derives rules from a struct, using json names as aliases:
//
//	type Signup struct {
//	    Phone    string `json:"phone" scrub:"phone"`
//	    Password string `json:"password" scrub:"full"`
//	}
//
//	reg, _ := scrub.RegistryFor[Signup]()
package scrub

import "strings"

// MaskHeaders masks headers with the default engine.
func MaskHeaders(headers map[string][]string) map[string][]string {
	return defaultEngine.MaskHeaders(headers)
}

// MaskBody masks a body with the default engine.
func MaskBody(body string) string {
	return defaultEngine.MaskBody(body)
}

// MaskURL masks URL query parameters with the default engine.
func MaskURL(rawURL string) string {
	return defaultEngine.MaskURL(rawURL)
}

// MaskHeaderNames replaces the values of the named headers with Redacted,
// ignoring any registry. Names are compared case-insensitively. With no
// names, headers is returned unchanged.
func MaskHeaderNames(headers map[string][]string, names ...string) map[string][]string {
	if len(headers) == 0 || len(names) == 0 {
		return headers
	}

	sensitive := make(map[string]struct{}, len(names))
	for _, n := range names {
		sensitive[strings.ToLower(n)] = struct{}{}
	}

	out := make(map[string][]string, len(headers))
	for name, values := range headers {
		if _, ok := sensitive[strings.ToLower(name)]; ok {
			out[name] = []string{Redacted}
			continue
		}
		out[name] = values
	}
	return out
}
