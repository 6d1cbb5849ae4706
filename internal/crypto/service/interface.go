// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), envelope key
// wrapping through an external KMS, and secret hashing.
package service

import (
	"context"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	// The authentication tag is appended to the ciphertext.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD, verifying
	// the trailing authentication tag.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// EnvelopeKeyProvider defines the external key-management collaborator that
// wraps and unwraps data keys with a master key it never discloses.
type EnvelopeKeyProvider interface {
	// GenerateDataKey creates a fresh 32-byte data key and returns both its
	// plaintext and its envelope-encrypted form.
	GenerateDataKey(ctx context.Context) (plaintextKey, wrappedKey []byte, err error)

	// DecryptDataKey unwraps an envelope-encrypted data key.
	DecryptDataKey(ctx context.Context, wrappedKey []byte) ([]byte, error)
}

// HashService defines salted slow hashing for secrets with constant-time verification.
type HashService interface {
	// Hash derives a salted hash of the secret, encoded as "saltHex:derivedHex".
	Hash(secret string) (string, error)

	// Verify recomputes the hash with the stored salt and compares in constant time.
	Verify(secret, encoded string) bool
}
