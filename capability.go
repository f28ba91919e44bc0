package scrub

import "strings"

// MaskType selects how a rule transforms a matched value.
// Use these constants in rule files: `type: partial`
type MaskType string

const (
	// MaskFull replaces the whole value with the redaction token.
	MaskFull MaskType = "full"

	// MaskPartial keeps a prefix and suffix and masks the middle.
	MaskPartial MaskType = "partial"

	// MaskDigest replaces the value with a short BLAKE2b fingerprint.
	// Equal inputs produce equal fingerprints, so values correlate across
	// log lines without being revealed.
	MaskDigest MaskType = "digest"
)

// ValueKind describes the shape of a value for partial masking.
// Use these constants in struct tags: `scrub:"phone"`
type ValueKind string

const (
	// KindGeneric masks the middle of any string.
	KindGeneric ValueKind = "generic"

	// KindPhone is a phone number.
	KindPhone ValueKind = "phone"

	// KindIDCard is a national identity number.
	KindIDCard ValueKind = "idcard"

	// KindEmail is an email address; only the local part is masked.
	KindEmail ValueKind = "email"

	// KindToken is a credential; rules of this kind are normally full masks.
	KindToken ValueKind = "token"
)

// validMaskTypes contains all valid mask types for rule validation.
var validMaskTypes = map[MaskType]bool{
	MaskFull:    true,
	MaskPartial: true,
	MaskDigest:  true,
}

// validValueKinds contains all valid value kinds for rule validation.
var validValueKinds = map[ValueKind]bool{
	KindGeneric: true,
	KindPhone:   true,
	KindIDCard:  true,
	KindEmail:   true,
	KindToken:   true,
}

// IsValidMaskType returns true if the type is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}

// IsValidValueKind returns true if the kind is a known value kind.
func IsValidValueKind(vk ValueKind) bool {
	return validValueKinds[vk]
}

// ParseMaskType converts a case-insensitive name into a MaskType.
// An empty name yields MaskFull.
func ParseMaskType(s string) (MaskType, bool) {
	if s == "" {
		return MaskFull, true
	}
	mt := MaskType(strings.ToLower(strings.TrimSpace(s)))
	return mt, validMaskTypes[mt]
}

// ParseValueKind converts a case-insensitive name into a ValueKind.
// An empty name yields KindGeneric. "id_card" is accepted as KindIDCard.
func ParseValueKind(s string) (ValueKind, bool) {
	if s == "" {
		return KindGeneric, true
	}
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "id_card" {
		name = string(KindIDCard)
	}
	vk := ValueKind(name)
	return vk, validValueKinds[vk]
}
