package board

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestFunc turns a secret into the string stored as a record's CodeHash.
// The same secret must always produce the same digest, since claims are
// verified by comparing digests.
type DigestFunc func(secret string) string

// SHA256Hex is the default digest: lowercase hex of the secret's SHA-256.
func SHA256Hex(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
