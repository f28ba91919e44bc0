package scrub

import "strings"

// FormTokenizer masks alias=value pairs in urlencoded bodies and similar
// key=value text. Values end at '&' or whitespace. Alias matching is
// case-insensitive and anchored at the start of the body or after '&', '?',
// ';' or whitespace, so "hotel=" never matches the alias "tel".
//
// Each (rule, alias) pair is one pass over the whole body; see
// Registry.formPatterns for the cost this implies.
type FormTokenizer struct{}

// Name returns "form".
func (FormTokenizer) Name() string { return "form" }

// Supports reports whether body contains '=' and does not look like JSON.
// A JSON or binary content type disables the tokenizer.
func (FormTokenizer) Supports(contentType, body string) bool {
	if body == "" || isJSONContentType(contentType) || isBinaryContentType(contentType) {
		return false
	}
	if !strings.Contains(body, "=") {
		return false
	}
	trimmed := strings.TrimSpace(body)
	return !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[")
}

// Mask implements Tokenizer.
func (FormTokenizer) Mask(body string, reg *Registry, buf *Buffer) (string, error) {
	if body == "" || reg == nil {
		return body, nil
	}

	out := body
	for _, p := range reg.formPatterns() {
		matches := p.re.FindAllStringSubmatchIndex(out, -1)
		if len(matches) == 0 {
			continue
		}

		buf.Reset()
		last := 0
		for _, m := range matches {
			// m[6]:m[7] is the value group.
			start, end := m[6], m[7]
			buf.AppendRange(out, last, start)
			buf.AppendString(p.rule.Apply(out[start:end]))
			last = end
		}
		buf.AppendRange(out, last, len(out))
		out = buf.String()
	}

	return out, nil
}
