package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPrompt returns a stable hex digest of a prompt, safe to log in place of the text.
func HashPrompt(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
