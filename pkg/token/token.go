package token

import (
	"crypto/rand"
	"encoding/hex"
)

// Length is the number of random bytes in a ticket token (64 hex chars).
const Length = 32

// Generate returns a cryptographically secure random token for
// invitation and password-reset tickets.
func Generate() (string, error) {
	bytes := make([]byte, Length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
