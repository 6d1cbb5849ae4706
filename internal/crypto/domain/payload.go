package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// payloadVersion prefixes serialized payloads so the format can evolve.
const payloadVersion = "v1"

// EncryptedPayload represents an encrypted value together with everything
// needed to decrypt it later: the id of the data key, the algorithm, the
// nonce, and the envelope-wrapped key itself. Payloads are self-describing
// and portable across processes; decryption only requires access to the
// external envelope key provider, not to the local key cache.
type EncryptedPayload struct {
	KeyID      uuid.UUID
	Algorithm  Algorithm
	Nonce      []byte
	WrappedKey []byte
	Ciphertext []byte
}

// String serializes the payload to its storage form:
//
//	v1:keyID:algorithm:nonce-b64:wrappedKey-b64:ciphertext-b64
//
// This round-trips with ParseEncryptedPayload.
func (p EncryptedPayload) String() string {
	return strings.Join([]string{
		payloadVersion,
		p.KeyID.String(),
		string(p.Algorithm),
		base64.StdEncoding.EncodeToString(p.Nonce),
		base64.StdEncoding.EncodeToString(p.WrappedKey),
		base64.StdEncoding.EncodeToString(p.Ciphertext),
	}, ":")
}

// ParseEncryptedPayload creates an EncryptedPayload from its string form.
// Returns ErrInvalidPayload when the input is malformed.
func ParseEncryptedPayload(content string) (EncryptedPayload, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 6 {
		return EncryptedPayload{}, fmt.Errorf(
			"%w: expected 6 colon-separated parts, got %d", ErrInvalidPayload, len(parts),
		)
	}

	if parts[0] != payloadVersion {
		return EncryptedPayload{}, fmt.Errorf("%w: unknown version %q", ErrInvalidPayload, parts[0])
	}

	keyID, err := uuid.Parse(parts[1])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: bad key id: %v", ErrInvalidPayload, err)
	}

	alg, err := ParseAlgorithm(parts[2])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: bad algorithm %q", ErrInvalidPayload, parts[2])
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: bad nonce encoding: %v", ErrInvalidPayload, err)
	}

	wrappedKey, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: bad wrapped key encoding: %v", ErrInvalidPayload, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: bad ciphertext encoding: %v", ErrInvalidPayload, err)
	}

	return EncryptedPayload{
		KeyID:      keyID,
		Algorithm:  alg,
		Nonce:      nonce,
		WrappedKey: wrappedKey,
		Ciphertext: ciphertext,
	}, nil
}
