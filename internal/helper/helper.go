package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash8 gives a short stable digest, used for keying rate-limit counters
// without leaking raw emails/IPs into Redis.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
