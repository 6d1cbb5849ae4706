// Package domain defines the core cryptographic domain models for envelope encryption.
//
// Data keys are generated on demand, wrapped by a master key held in an
// external KMS, and cached with a validity window. Application data is
// encrypted with the plaintext data key; only the wrapped form is ever
// persisted or cached.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DataKey represents a data encryption key in the envelope encryption scheme.
// The plaintext Key is populated in memory only and must be zeroed after use;
// the WrappedKey is the envelope-encrypted form produced by the KMS.
type DataKey struct {
	ID         uuid.UUID `json:"id"`
	WrappedKey []byte    `json:"wrapped_key"`
	Key        []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the key's validity window has elapsed at the given
// time. An expired key must not be selected for new encryption; existing
// ciphertext remains decryptable through the payload-embedded wrapped key.
func (k *DataKey) Expired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// Encode serializes the key for cache storage. The plaintext key material is
// excluded by construction (the Key field carries the json:"-" tag).
func (k *DataKey) Encode() (string, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDataKey restores a key from its cache representation.
func DecodeDataKey(data string) (*DataKey, error) {
	var key DataKey
	if err := json.Unmarshal([]byte(data), &key); err != nil {
		return nil, err
	}
	return &key, nil
}
