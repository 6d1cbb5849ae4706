package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSEnvelopeKeyProvider implements EnvelopeKeyProvider using a
// gocloud.dev/secrets keeper. The master key never leaves the KMS; this
// provider only sees plaintext data keys it just generated or the KMS just
// unwrapped.
type KMSEnvelopeKeyProvider struct {
	keeper *secrets.Keeper
}

// NewKMSEnvelopeKeyProvider opens a keeper for the configured KMS key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func NewKMSEnvelopeKeyProvider(ctx context.Context, keyURI string) (*KMSEnvelopeKeyProvider, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return &KMSEnvelopeKeyProvider{keeper: keeper}, nil
}

// GenerateDataKey creates a random 32-byte data key and wraps it with the
// master key held by the KMS. Both forms are returned; the caller owns
// zeroing the plaintext.
func (p *KMSEnvelopeKeyProvider) GenerateDataKey(ctx context.Context) ([]byte, []byte, error) {
	plaintextKey := make([]byte, 32)
	if _, err := rand.Read(plaintextKey); err != nil {
		return nil, nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	wrappedKey, err := p.keeper.Encrypt(ctx, plaintextKey)
	if err != nil {
		cryptoDomain.Zero(plaintextKey)
		return nil, nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	return plaintextKey, wrappedKey, nil
}

// DecryptDataKey unwraps an envelope-encrypted data key via the KMS.
func (p *KMSEnvelopeKeyProvider) DecryptDataKey(ctx context.Context, wrappedKey []byte) ([]byte, error) {
	plaintextKey, err := p.keeper.Decrypt(ctx, wrappedKey)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnavailable
	}
	return plaintextKey, nil
}

// Close releases the underlying keeper.
func (p *KMSEnvelopeKeyProvider) Close() error {
	return p.keeper.Close()
}
