package scrub

import "strings"

// jsonState is the scanner position relative to the JSON grammar.
type jsonState uint8

const (
	stateStart      jsonState = iota // outside any container
	stateInObject                    // expecting a field name or '}'
	stateInArray                     // expecting an element or ']'
	stateFieldName                   // field name read, expecting ':'
	stateAfterColon                  // expecting a value
	stateOtherValue                  // inside a number, boolean or null
	stateAfterValue                  // expecting ',' or a closing bracket
)

// JSONTokenizer masks string values of sensitive fields in a single pass
// without decoding the document. Every byte other than a masked string's
// contents is copied through unchanged.
//
// Accepted input is a top-level object or array. Structural problems
// (text outside a container, an unterminated string, unbalanced or
// mismatched brackets) are reported as *ParseError.
//
// Enclosing containers are tracked on a stack, so a ',' inside an array
// resumes array scanning and array strings are never taken for field names.
type JSONTokenizer struct{}

// Name returns "json".
func (JSONTokenizer) Name() string { return "json" }

// Supports reports whether the trimmed body is wrapped in {} or [].
// A form or binary content type disables the tokenizer.
func (JSONTokenizer) Supports(contentType, body string) bool {
	if body == "" || isFormContentType(contentType) || isBinaryContentType(contentType) {
		return false
	}
	trimmed := strings.TrimSpace(body)
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

// Mask implements Tokenizer.
func (t JSONTokenizer) Mask(body string, reg *Registry, buf *Buffer) (string, error) {
	if body == "" {
		return body, nil
	}

	var stackArr [32]byte
	stack := stackArr[:0]

	// closeContainer pops the matching opener and picks the next state.
	closeContainer := func(i int, ch byte) (jsonState, error) {
		if len(stack) == 0 {
			return stateStart, newParseError(t.Name(), i, "unbalanced closing bracket")
		}
		open := stack[len(stack)-1]
		if (ch == '}' && open != '{') || (ch == ']' && open != '[') {
			return stateStart, newParseError(t.Name(), i, "mismatched closing bracket")
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return stateStart, nil
		}
		return stateAfterValue, nil
	}

	// openContainer pushes an opener and picks the next state.
	openContainer := func(ch byte) jsonState {
		stack = append(stack, ch)
		if ch == '{' {
			return stateInObject
		}
		return stateInArray
	}

	state := stateStart
	field := ""
	n := len(body)
	i := 0

	for i < n {
		ch := body[i]

		switch state {
		case stateStart:
			switch {
			case ch == '{' || ch == '[':
				buf.AppendByte(ch)
				state = openContainer(ch)
			case isJSONSpace(ch):
				buf.AppendByte(ch)
			default:
				return body, newFormatError(t.Name(), i, "unexpected character outside container")
			}
			i++

		case stateInObject:
			switch ch {
			case '"':
				end := findStringEnd(body, i+1)
				if end < 0 {
					return body, newParseError(t.Name(), i, "unterminated field name")
				}
				field = body[i+1 : end]
				buf.AppendRange(body, i, end+1)
				i = end + 1
				state = stateFieldName
				continue
			case '{', '[':
				buf.AppendByte(ch)
				state = openContainer(ch)
			case '}', ']':
				buf.AppendByte(ch)
				next, err := closeContainer(i, ch)
				if err != nil {
					return body, err
				}
				state = next
			default:
				buf.AppendByte(ch)
			}
			i++

		case stateInArray:
			switch ch {
			case '"':
				// Array elements are values, never field names.
				end := findStringEnd(body, i+1)
				if end < 0 {
					return body, newParseError(t.Name(), i, "unterminated string")
				}
				buf.AppendRange(body, i, end+1)
				i = end + 1
				state = stateAfterValue
				continue
			case '{', '[':
				buf.AppendByte(ch)
				state = openContainer(ch)
			case '}', ']':
				buf.AppendByte(ch)
				next, err := closeContainer(i, ch)
				if err != nil {
					return body, err
				}
				state = next
			default:
				// Numbers, booleans, null and separators between them.
				buf.AppendByte(ch)
			}
			i++

		case stateFieldName:
			buf.AppendByte(ch)
			if ch == ':' {
				state = stateAfterColon
			}
			i++

		case stateAfterColon:
			switch {
			case ch == '"':
				end := findStringEnd(body, i+1)
				if end < 0 {
					return body, newParseError(t.Name(), i, "unterminated string")
				}
				if rule := reg.FindRule(field); rule != nil {
					buf.AppendByte('"').
						AppendString(maskJSONString(rule, body[i+1:end])).
						AppendByte('"')
				} else {
					buf.AppendRange(body, i, end+1)
				}
				i = end + 1
				field = ""
				state = stateAfterValue
			case ch == '{' || ch == '[':
				buf.AppendByte(ch)
				field = ""
				state = openContainer(ch)
				i++
			case isJSONSpace(ch):
				buf.AppendByte(ch)
				i++
			default:
				// Number, boolean or null; copied verbatim.
				state = stateOtherValue
			}

		case stateOtherValue:
			end := i
			for end < n && !isValueTerminator(body[end]) {
				end++
			}
			buf.AppendRange(body, i, end)
			i = end
			field = ""
			state = stateAfterValue

		case stateAfterValue:
			switch ch {
			case ',':
				buf.AppendByte(ch)
				if stack[len(stack)-1] == '[' {
					state = stateInArray
				} else {
					state = stateInObject
				}
			case '}', ']':
				buf.AppendByte(ch)
				next, err := closeContainer(i, ch)
				if err != nil {
					return body, err
				}
				state = next
			default:
				buf.AppendByte(ch)
			}
			i++
		}
	}

	if len(stack) != 0 {
		return body, newParseError(t.Name(), n, "unclosed container")
	}

	return buf.String(), nil
}

// maskJSONString masks the raw (still escaped) contents of a JSON string.
// Partial masks could split an escape sequence and break the document, so
// escaped values under partial rules are fully redacted.
func maskJSONString(rule *Rule, raw string) string {
	if rule.maskType == MaskPartial && strings.IndexByte(raw, '\\') >= 0 {
		return Redacted
	}
	return rule.Apply(raw)
}

// findStringEnd returns the index of the quote closing a string whose
// contents start at start, or -1. A quote preceded by an odd number of
// backslashes is escaped.
func findStringEnd(s string, start int) int {
	for i := start; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= start && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isValueTerminator(ch byte) bool {
	return ch == ',' || ch == '}' || ch == ']' || isJSONSpace(ch)
}
