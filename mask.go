package scrub

import (
	"strings"
)

// maskEnds keeps the first prefix and last suffix runes and masks the rest:
// 13800138000 (3/4) -> 138****8000
//
// A value shorter than prefix+suffix is fully redacted. Rule minimums are
// what keep a value of exactly prefix+suffix runes from being shown whole.
func maskEnds(value string, prefix, suffix int, ch rune) string {
	runes := []rune(value)
	if len(runes) < prefix+suffix {
		return Redacted
	}

	var sb strings.Builder
	sb.Grow(len(value))
	sb.WriteString(string(runes[:prefix]))
	writeRepeat(&sb, ch, len(runes)-prefix-suffix)
	sb.WriteString(string(runes[len(runes)-suffix:]))
	return sb.String()
}

// maskEmail masks the local part and keeps the domain:
// john@example.com (2/1) -> jo*n@example.com
//
// The split is at the first '@'. A missing '@' or an empty local part is
// fully redacted. A local part shorter than prefix+suffix is masked
// entirely.
func maskEmail(value string, prefix, suffix int, ch rune) string {
	atIdx := strings.IndexByte(value, '@')
	if atIdx <= 0 {
		return Redacted
	}

	local := []rune(value[:atIdx])
	domain := value[atIdx:]

	var sb strings.Builder
	sb.Grow(len(value))
	if len(local) < prefix+suffix {
		writeRepeat(&sb, ch, len(local))
		sb.WriteString(domain)
		return sb.String()
	}

	sb.WriteString(string(local[:prefix]))
	writeRepeat(&sb, ch, len(local)-prefix-suffix)
	sb.WriteString(string(local[len(local)-suffix:]))
	sb.WriteString(domain)
	return sb.String()
}

// writeRepeat writes ch count times. Non-positive counts write nothing.
func writeRepeat(sb *strings.Builder, ch rune, count int) {
	for i := 0; i < count; i++ {
		sb.WriteRune(ch)
	}
}
