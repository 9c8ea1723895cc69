package secrets

import (
	"encoding/base64"
	"testing"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeKey(t *testing.T) {
	key := mustKey(t)

	text := EncodeKey(key)
	assert.Len(t, text, 44)

	got, err := DecodeKey(text)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestDecodeKeyAlternateAlphabets(t *testing.T) {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(0xf0 + i%16)
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		got, err := DecodeKey("  " + enc.EncodeToString(key) + "\n")
		require.NoError(t, err)
		assert.Equal(t, key, got)
	}
}

func TestDecodeKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", kerrors.ErrMissingDecryptionKey},
		{"whitespace", "   ", kerrors.ErrMissingDecryptionKey},
		{"not base64", "!!!not-a-key!!!", kerrors.ErrInvalidKeyEncoding},
		{"128-bit key", base64.StdEncoding.EncodeToString(make([]byte, 16)), kerrors.ErrInvalidKeyLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeKey(tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
