package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the identity token of cleaned resume text.
// The empty string has a valid token of its own.
func Fingerprint(cleanedText string) string {
	sum := sha256.Sum256([]byte(cleanedText))
	return hex.EncodeToString(sum[:])
}
