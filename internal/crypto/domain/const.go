package domain

// Algorithm represents the AEAD algorithm used for encryption.
//
// Both supported algorithms provide Authenticated Encryption with Associated
// Data using 256-bit keys, 12-byte nonces, and 16-byte authentication tags.
// AESGCM is preferred on CPUs with AES-NI acceleration; ChaCha20 performs
// better in pure software.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string to an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
