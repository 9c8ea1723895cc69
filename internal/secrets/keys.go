package secrets

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
)

// EncodeKey renders a raw key as padded standard base64, the form handed to
// operators and stored in DECRYPTION_KEY.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// DecodeKey parses base64 key text and checks its length. Surrounding
// whitespace is ignored; the URL-safe and unpadded alphabets are accepted.
func DecodeKey(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, kerrors.ErrMissingDecryptionKey
	}

	var key []byte
	var err error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		key, err = enc.DecodeString(text)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyEncoding, err)
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}
	return key, nil
}
