package domain

import (
	"github.com/glowdesk/securekit/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors to
// provide context for cryptographic failures.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// All data keys must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrIntegrity indicates authenticated decryption failed.
	//
	// The ciphertext has been tampered with, the wrong key was used, or the
	// nonce is corrupted. The specific cause is deliberately not disclosed.
	// This error is always fatal to the operation and never retried.
	ErrIntegrity = errors.Wrap(errors.ErrInvalidInput, "integrity check failed")

	// ErrKeyUnavailable indicates a data key could not be resolved from the
	// key store or the envelope key provider. Callers may retry.
	ErrKeyUnavailable = errors.Wrap(errors.ErrNotFound, "encryption key unavailable")

	// ErrInvalidPayload indicates an encrypted payload could not be parsed
	// from its serialized form.
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted payload")
)
