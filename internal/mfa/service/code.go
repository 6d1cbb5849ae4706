package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// CodeService generates, hashes, and verifies the short numeric codes sent
// over SMS and email. Codes have little entropy, so they are hashed with
// Argon2id before being cached.
type CodeService struct {
	hasher *pwdhash.PasswordHasher
}

// NewCodeService creates a CodeService using the Argon2id interactive
// policy: codes live for minutes, so hashing stays fast.
func NewCodeService() *CodeService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}
	return &CodeService{hasher: hasher}
}

// Generate returns a random 6-digit numeric code.
func (c *CodeService) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate one-time code")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Hash hashes a one-time code for storage.
func (c *CodeService) Hash(code string) (string, error) {
	hashed, err := c.hasher.Hash([]byte(code))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash one-time code")
	}
	return hashed, nil
}

// Verify performs a constant-time comparison between a code and its hash.
func (c *CodeService) Verify(code, hashed string) bool {
	ok, err := c.hasher.Verify([]byte(code), hashed)
	if err != nil {
		return false
	}
	return ok
}

// GenerateBackupCodes produces count formatted backup codes, each 16 random
// hex characters grouped as xxxx-xxxx-xxxx-xxxx.
func (c *CodeService) GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, count)
	for i := range codes {
		raw := make([]byte, 8)
		if _, err := rand.Read(raw); err != nil {
			return nil, apperrors.Wrap(err, "failed to generate backup code")
		}
		hexCode := hex.EncodeToString(raw)
		codes[i] = fmt.Sprintf("%s-%s-%s-%s", hexCode[0:4], hexCode[4:8], hexCode[8:12], hexCode[12:16])
	}
	return codes, nil
}

// HashBackupCode hashes a backup code with SHA-256. Backup codes carry 64
// bits of entropy, so a fast hash is enough and keeps verification scans
// over the stored list cheap.
func HashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyBackupCode compares a code to a stored hash in constant time.
func VerifyBackupCode(code, hashed string) bool {
	computed := HashBackupCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hashed)) == 1
}
