package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// BuildUserKey derives the stable identity hash for a fortune request.
// The parts are joined with "|" in the order the caller supplies them,
// so the same inputs always map to the same key.
func BuildUserKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// HashText returns a short digest of free-form text. Dream content is
// folded into the identity key through this instead of being stored raw.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}
