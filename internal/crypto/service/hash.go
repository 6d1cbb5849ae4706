package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// scrypt parameters: interactive-login cost as recommended by the package docs.
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 32
	scryptSaltLen = 16
)

// ScryptHashService implements HashService using the scrypt memory-hard KDF.
// Hashes are encoded as "saltHex:derivedHex" so the salt travels with the hash.
type ScryptHashService struct{}

// NewScryptHashService creates a new ScryptHashService.
func NewScryptHashService() *ScryptHashService {
	return &ScryptHashService{}
}

// Hash derives a salted scrypt hash of the secret. A fresh random salt is
// generated per call, so hashing the same secret twice produces different
// encodings.
func (s *ScryptHashService) Hash(secret string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}

	derived, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to derive key")
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(derived), nil
}

// Verify recomputes the scrypt hash with the stored salt and compares the
// result to the stored derived key in constant time. Malformed encodings
// verify as false rather than erroring, so callers can treat any mismatch
// uniformly.
func (s *ScryptHashService) Verify(secret, encoded string) bool {
	parts := strings.Split(encoded, ":")
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}

	stored, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(derived, stored) == 1
}
