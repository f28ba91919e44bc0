package scrub

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digestPrefix marks fingerprints produced by MaskDigest rules.
const digestPrefix = "blake2b:"

// digestLen is the number of hash bytes kept in a fingerprint.
const digestLen = 8

// digest returns a short BLAKE2b-256 fingerprint of value.
// A non-empty key turns it into a keyed MAC. Output: blake2b:<16 hex chars>
func digest(key []byte, value string) string {
	h, err := blake2b.New256(key)
	if err != nil {
		// Key length is validated at build time.
		return Redacted
	}
	_, _ = h.Write([]byte(value))
	sum := h.Sum(nil)
	return digestPrefix + hex.EncodeToString(sum[:digestLen])
}
