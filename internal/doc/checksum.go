package doc

import (
	"crypto/sha256"
	"encoding/hex"
)

// ChecksumPrefix tags the hash algorithm in frontmatter checksums.
const ChecksumPrefix = "sha256:"

// Checksum computes the integrity checksum of a serialized document body:
// SHA-256 over the UTF-8 bytes, formatted as "sha256:<lowercase-hex>".
//
// The checksum covers the body only, never the frontmatter that contains it.
func Checksum(body string) string {
	sum := sha256.Sum256([]byte(body))
	return ChecksumPrefix + hex.EncodeToString(sum[:])
}
