package hashutil

import (
	"crypto/sha256"
	"fmt"
)

// Prefix marks the algorithm in every checksum string
const Prefix = "sha256:"

// Checksum calculates the SHA256 checksum of the concatenated parts
func Checksum(parts ...[]byte) string {
	hash := sha256.New()
	for _, p := range parts {
		_, _ = hash.Write(p)
	}
	return fmt.Sprintf("%s%x", Prefix, hash.Sum(nil))
}
