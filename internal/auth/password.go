package auth

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// PasswordDigest returns the stored form of an access password. The digest is
// deterministic so that passwords can be looked up and kept unique.
func PasswordDigest(password string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(password)))
	return hex.EncodeToString(sum[:])
}
