package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a filesystem-safe identifier for an opaque key such as a session ID.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 16 hex characters of HashKey, enough to namespace storage.
func ShortHash(s string) string {
	return HashKey(s)[:16]
}

// ContentSHA256 returns the hex SHA-256 digest of data.
func ContentSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
