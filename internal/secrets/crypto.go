package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the symmetric key length in bytes (256 bits).
	KeySize = 32

	// NonceSize is the length of the nonce stored in front of every blob.
	NonceSize = 12
)

// Algorithm names an AEAD construction usable for the dataset blob.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Blobs produced by WebCrypto's
	// AES-GCM with a 12 byte IV open with it.
	AESGCM Algorithm = "aes-256-gcm"

	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction.
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AESGCM

// ParseAlgorithm maps a configured name onto an Algorithm. The empty string
// selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "":
		return DefaultAlgorithm, nil
	case AESGCM, ChaCha20Poly1305:
		return Algorithm(name), nil
	default:
		return "", fmt.Errorf("%w: %q", kerrors.ErrUnknownAlgorithm, name)
	}
}

// CreateSymmetricKey generates a new random symmetric key.
func CreateSymmetricKey() ([]byte, error) {
	symKey := make([]byte, KeySize)
	if _, err := rand.Read(symKey); err != nil {
		return nil, err
	}

	return symKey, nil
}

// newAEAD builds the cipher for alg. Both supported constructions take a
// 32 byte key and a 12 byte nonce.
func newAEAD(key []byte, alg Algorithm) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	switch alg {
	case AESGCM, "":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create block cipher: %w", err)
		}
		return cipher.NewGCM(block)
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownAlgorithm, alg)
	}
}

// Seal encrypts plaintext under key with a freshly generated random nonce.
// The returned sealed slice carries the authentication tag at its end.
func Seal(plaintext, key []byte, alg Algorithm) (nonce, sealed []byte, err error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open verifies and decrypts sealed. Every verification failure, whether a
// wrong key, a damaged nonce or a damaged payload, is reported as
// ErrAuthentication with no further detail.
func Open(nonce, sealed, key []byte, alg Algorithm) ([]byte, error) {
	aead, err := newAEAD(key, alg)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, kerrors.ErrAuthentication
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	return plaintext, nil
}

// SealBlob encrypts plaintext into the on-disk layout: nonce followed by the
// sealed payload.
func SealBlob(plaintext, key []byte, alg Algorithm) ([]byte, error) {
	nonce, sealed, err := Seal(plaintext, key, alg)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, len(nonce)+len(sealed))
	blob = append(blob, nonce...)
	return append(blob, sealed...), nil
}

// OpenBlob splits blob into nonce and payload and opens it.
func OpenBlob(blob, key []byte, alg Algorithm) ([]byte, error) {
	if len(blob) < NonceSize {
		// Key errors still win so a misconfigured key is reported as such.
		if _, err := newAEAD(key, alg); err != nil {
			return nil, err
		}
		return nil, kerrors.ErrAuthentication
	}
	return Open(blob[:NonceSize], blob[NonceSize:], key, alg)
}
