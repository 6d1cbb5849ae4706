// Package usecase implements business logic orchestration for encryption
// operations: field encryption/decryption with lazily created data keys,
// secret hashing, and key rotation.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
)

// KeyStore defines the short-lived cache of envelope-encrypted data keys.
// Entries expire with the key's validity window; expired or absent keys
// return ErrKeyUnavailable.
type KeyStore interface {
	Put(ctx context.Context, key *cryptoDomain.DataKey) error
	Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.DataKey, error)
	CurrentID(ctx context.Context) (uuid.UUID, error)
	SetCurrentID(ctx context.Context, id uuid.UUID, ttl time.Duration) error
}

// EncryptionUseCase defines the narrow interface through which application
// code protects sensitive fields at rest.
type EncryptionUseCase interface {
	// Encrypt protects a plaintext under the current data key, creating one
	// if no valid key exists. The returned payload is self-describing.
	Encrypt(ctx context.Context, plaintext []byte) (*cryptoDomain.EncryptedPayload, error)

	// Decrypt recovers the plaintext from a payload, resolving the envelope
	// key through the external provider. Returns ErrIntegrity if the
	// authentication tag does not verify.
	Decrypt(ctx context.Context, payload *cryptoDomain.EncryptedPayload) ([]byte, error)

	// Hash derives a salted slow hash of a secret for storage.
	Hash(secret string) (string, error)

	// Verify checks a secret against a stored hash in constant time.
	Verify(secret, encoded string) bool

	// RotateKeys generates a new data key and makes it current. Existing
	// ciphertext stays decryptable; payloads are keyed by key id, not by
	// current status.
	RotateKeys(ctx context.Context) error
}
