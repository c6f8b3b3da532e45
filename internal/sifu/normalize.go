package sifu

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// punctReplacer strips the punctuation that near-identical questions differ by.
var punctReplacer = strings.NewReplacer("?", "", ".", "", ",", "", "!", "")

// NormalizeQuestion canonicalizes question text for cache keying: lowercase,
// strip "?", ".", ",", "!", collapse whitespace runs, trim. Deterministic and
// side-effect free.
func NormalizeQuestion(text string) string {
	lowered := strings.ToLower(text)
	stripped := punctReplacer.Replace(lowered)
	return strings.Join(strings.Fields(stripped), " ")
}

// QuestionKey returns the cache key for a question: the SHA-256 digest of the
// normalized text as a lowercase hex string. Questions differing only by
// casing, the stripped punctuation, or whitespace runs share a key.
func QuestionKey(text string) string {
	sum := sha256.Sum256([]byte(NormalizeQuestion(text)))
	return hex.EncodeToString(sum[:])
}
