package scrub

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// Redacted is the placeholder substituted for any fully masked value.
const Redacted = "***MASKED***"

// Rule describes one sensitive field: the names it answers to and how its
// values are masked. Rules are immutable once built and safe to share.
type Rule struct {
	name       string
	fields     map[string]struct{} // lower-case aliases
	aliases    []string            // sorted view of fields
	maskType   MaskType
	kind       ValueKind
	keepPrefix int
	keepSuffix int
	maskChar   rune
	minLength  int
	digestKey  []byte
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.name }

// Fields returns the lower-case field aliases in sorted order.
func (r *Rule) Fields() []string {
	out := make([]string, len(r.aliases))
	copy(out, r.aliases)
	return out
}

// Type returns the mask type.
func (r *Rule) Type() MaskType { return r.maskType }

// Kind returns the value kind.
func (r *Rule) Kind() ValueKind { return r.kind }

// KeepPrefix returns the number of leading characters left visible.
func (r *Rule) KeepPrefix() int { return r.keepPrefix }

// KeepSuffix returns the number of trailing characters left visible.
func (r *Rule) KeepSuffix() int { return r.keepSuffix }

// MaskChar returns the character used for the masked middle.
func (r *Rule) MaskChar() rune { return r.maskChar }

// MinLength returns the shortest value that may be partially revealed.
func (r *Rule) MinLength() int { return r.minLength }

// MatchesField reports whether fieldLower is one of the rule's aliases.
// The argument must already be lower-case.
func (r *Rule) MatchesField(fieldLower string) bool {
	_, ok := r.fields[fieldLower]
	return ok
}

// Apply masks a raw value according to the rule.
// Empty input is returned unchanged. Lengths are counted in runes.
func (r *Rule) Apply(raw string) string {
	if raw == "" {
		return raw
	}

	switch r.maskType {
	case MaskFull:
		return Redacted
	case MaskDigest:
		return digest(r.digestKey, raw)
	}

	// Too short to safely reveal any portion
	if utf8.RuneCountInString(raw) < r.minLength {
		return Redacted
	}

	switch r.kind {
	case KindEmail:
		return maskEmail(raw, r.keepPrefix, r.keepSuffix, r.maskChar)
	default:
		// Phone, ID card, token and generic values share the same layout.
		return maskEnds(raw, r.keepPrefix, r.keepSuffix, r.maskChar)
	}
}

// String implements fmt.Stringer for diagnostics.
func (r *Rule) String() string {
	return fmt.Sprintf("%s(%s/%s %v)", r.name, r.maskType, r.kind, r.aliases)
}

// RuleBuilder accumulates rule parameters. Build validates them.
type RuleBuilder struct {
	name       string
	fields     []string
	maskType   MaskType
	kind       ValueKind
	keepPrefix int
	keepSuffix int
	maskChar   rune
	minLength  int
	digestKey  []byte
}

// NewRule starts a rule with the given name.
// Defaults: MaskFull, KindGeneric, mask character '*'.
func NewRule(name string) *RuleBuilder {
	return &RuleBuilder{
		name:     name,
		maskType: MaskFull,
		kind:     KindGeneric,
		maskChar: '*',
	}
}

// Fields adds field aliases. Matching is case-insensitive.
func (b *RuleBuilder) Fields(names ...string) *RuleBuilder {
	b.fields = append(b.fields, names...)
	return b
}

// Type sets the mask type.
func (b *RuleBuilder) Type(mt MaskType) *RuleBuilder {
	b.maskType = mt
	return b
}

// Kind sets the value kind.
func (b *RuleBuilder) Kind(vk ValueKind) *RuleBuilder {
	b.kind = vk
	return b
}

// KeepPrefix sets how many leading characters stay visible.
func (b *RuleBuilder) KeepPrefix(n int) *RuleBuilder {
	b.keepPrefix = n
	return b
}

// KeepSuffix sets how many trailing characters stay visible.
func (b *RuleBuilder) KeepSuffix(n int) *RuleBuilder {
	b.keepSuffix = n
	return b
}

// MaskChar sets the masking character.
func (b *RuleBuilder) MaskChar(c rune) *RuleBuilder {
	b.maskChar = c
	return b
}

// MinLength sets the shortest value that may be partially revealed.
func (b *RuleBuilder) MinLength(n int) *RuleBuilder {
	b.minLength = n
	return b
}

// DigestKey sets the BLAKE2b key used by MaskDigest rules (at most 64 bytes).
func (b *RuleBuilder) DigestKey(key []byte) *RuleBuilder {
	b.digestKey = append([]byte(nil), key...)
	return b
}

// Build validates the parameters and returns an immutable Rule.
func (b *RuleBuilder) Build() (*Rule, error) {
	name := strings.TrimSpace(b.name)
	if name == "" {
		return nil, newRuleError(ErrMissingName, "", "")
	}

	fields := make(map[string]struct{}, len(b.fields))
	for _, f := range b.fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		fields[f] = struct{}{}
	}
	if len(fields) == 0 {
		return nil, newRuleError(ErrMissingFields, name, "")
	}

	if !IsValidMaskType(b.maskType) {
		return nil, newRuleError(ErrInvalidRule, name, fmt.Sprintf("mask type %q", b.maskType))
	}
	if !IsValidValueKind(b.kind) {
		return nil, newRuleError(ErrInvalidRule, name, fmt.Sprintf("value kind %q", b.kind))
	}
	if b.keepPrefix < 0 || b.keepSuffix < 0 || b.minLength < 0 {
		return nil, newRuleError(ErrInvalidRule, name, "negative length")
	}
	// Quotes and backslashes would change the structure of a JSON body.
	if b.maskChar == 0 || b.maskChar == '"' || b.maskChar == '\\' || !utf8.ValidRune(b.maskChar) {
		return nil, newRuleError(ErrInvalidRule, name, "mask character")
	}
	if len(b.digestKey) > blake2b.Size {
		return nil, newRuleError(ErrInvalidRule, name, fmt.Sprintf("digest key longer than %d bytes", blake2b.Size))
	}

	aliases := make([]string, 0, len(fields))
	for f := range fields {
		aliases = append(aliases, f)
	}
	sort.Strings(aliases)

	return &Rule{
		name:       name,
		fields:     fields,
		aliases:    aliases,
		maskType:   b.maskType,
		kind:       b.kind,
		keepPrefix: b.keepPrefix,
		keepSuffix: b.keepSuffix,
		maskChar:   b.maskChar,
		minLength:  b.minLength,
		digestKey:  append([]byte(nil), b.digestKey...),
	}, nil
}

// MustBuild is like Build but panics on error. Intended for static rule tables.
func (b *RuleBuilder) MustBuild() *Rule {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
