package secrets

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var algorithms = []Algorithm{AESGCM, ChaCha20Poly1305}

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := CreateSymmetricKey()
	require.NoError(t, err)
	require.Len(t, key, KeySize)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	plaintexts := [][]byte{
		{},
		[]byte("x"),
		[]byte(`[{"locationID":1,"desc":["hello"]}]`),
		bytes.Repeat([]byte{0xff, 0x00}, 4096),
	}

	for _, alg := range algorithms {
		key := mustKey(t)
		for _, pt := range plaintexts {
			nonce, sealed, err := Seal(pt, key, alg)
			require.NoError(t, err, alg)
			assert.Len(t, nonce, NonceSize)

			got, err := Open(nonce, sealed, key, alg)
			require.NoError(t, err, alg)
			assert.Equal(t, len(pt), len(got))
			assert.True(t, bytes.Equal(pt, got), "round trip mismatch for %s", alg)
		}
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	key := mustKey(t)
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		nonce, _, err := Seal([]byte("same"), key, AESGCM)
		require.NoError(t, err)
		require.False(t, seen[string(nonce)], "nonce repeated after %d seals", i)
		seen[string(nonce)] = true
	}
}

func TestOpenDetectsTampering(t *testing.T) {
	for _, alg := range algorithms {
		key := mustKey(t)
		blob, err := SealBlob([]byte(`[{"locationID":7,"desc":["tamper"]}]`), key, alg)
		require.NoError(t, err)

		// Flip every bit of the nonce and a spread of bits in the payload.
		positions := make([]int, 0, NonceSize+8)
		for i := 0; i < NonceSize; i++ {
			positions = append(positions, i)
		}
		for i := NonceSize; i < len(blob); i += 5 {
			positions = append(positions, i)
		}
		positions = append(positions, len(blob)-1)

		for _, pos := range positions {
			for bit := 0; bit < 8; bit++ {
				damaged := bytes.Clone(blob)
				damaged[pos] ^= 1 << bit

				_, err := OpenBlob(damaged, key, alg)
				require.Error(t, err, "%s: flip at byte %d bit %d went unnoticed", alg, pos, bit)
				assert.True(t, errors.Is(err, kerrors.ErrAuthentication))
			}
		}
	}
}

func TestOpenWrongKey(t *testing.T) {
	for _, alg := range algorithms {
		blob, err := SealBlob([]byte("secret"), mustKey(t), alg)
		require.NoError(t, err)

		_, err = OpenBlob(blob, mustKey(t), alg)
		assert.ErrorIs(t, err, kerrors.ErrAuthentication)
	}
}

func TestOpenWrongAlgorithm(t *testing.T) {
	key := mustKey(t)
	blob, err := SealBlob([]byte("secret"), key, AESGCM)
	require.NoError(t, err)

	_, err = OpenBlob(blob, key, ChaCha20Poly1305)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)
}

func TestOpenBlobTooShort(t *testing.T) {
	key := mustKey(t)
	for _, n := range []int{0, 1, NonceSize - 1, NonceSize} {
		_, err := OpenBlob(make([]byte, n), key, AESGCM)
		assert.ErrorIs(t, err, kerrors.ErrAuthentication, "blob of %d bytes", n)
	}
}

func TestInvalidKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 24, 31, 33} {
		_, _, err := Seal([]byte("x"), make([]byte, n), AESGCM)
		assert.ErrorIs(t, err, kerrors.ErrInvalidKeyLength, "key of %d bytes", n)

		_, err = OpenBlob(nil, make([]byte, n), AESGCM)
		assert.ErrorIs(t, err, kerrors.ErrInvalidKeyLength, "key of %d bytes", n)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", AESGCM, false},
		{"aes-256-gcm", AESGCM, false},
		{"chacha20-poly1305", ChaCha20Poly1305, false},
		{"AES-256-GCM", "", true},
		{"secretbox", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, kerrors.ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
