// Package service implements recovery code generation and hashing.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// GenerateCodes creates count random recovery codes. Each code is 16 hex
// characters, 64 bits of entropy.
func GenerateCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "recovery code count must be positive")
	}

	codes := make([]string, count)
	for i := range codes {
		raw := make([]byte, 8)
		if _, err := rand.Read(raw); err != nil {
			return nil, apperrors.Wrap(err, "failed to generate recovery code")
		}
		codes[i] = fmt.Sprintf("%X", raw)
	}
	return codes, nil
}

// HashCode hashes a recovery code with SHA-256 for storage.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyCode compares a code to a stored hash in constant time.
func VerifyCode(code, hashed string) bool {
	computed := HashCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashed)) == 1
}
