package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/secrets"
	"github.com/klauspost/compress/zstd"
)

// maxInflatedSize caps the size of a compressed dataset after inflation.
const maxInflatedSize = 256 << 20

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// Load reads the encrypted blob at path, opens it with key and parses the
// plaintext into records in file order.
//
// Returns ErrDatasetUnreadable if the file cannot be read.
// Returns ErrAuthentication if the blob does not verify under key.
// Returns ErrInvalidEncoding if the plaintext is not UTF-8.
// Returns ErrMalformedDataset if the plaintext is not a JSON array of records.
func Load(path string, key []byte, alg secrets.Algorithm) ([]Record, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDatasetUnreadable, err)
	}
	return Open(blob, key, alg)
}

// Open is Load for a blob already in memory.
func Open(blob, key []byte, alg secrets.Algorithm) ([]Record, error) {
	plaintext, err := Decrypt(blob, key, alg)
	if err != nil {
		return nil, err
	}
	return Parse(plaintext)
}

// Decrypt opens blob and returns the plaintext JSON text, inflating it first
// if it was compressed when sealed.
func Decrypt(blob, key []byte, alg secrets.Algorithm) ([]byte, error) {
	plaintext, err := secrets.OpenBlob(blob, key, alg)
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(plaintext, zstdMagic) {
		plaintext, err = inflate(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedDataset, err)
		}
	}
	return plaintext, nil
}

// Parse decodes plaintext JSON into records. A leading byte order mark is
// ignored.
func Parse(plaintext []byte) ([]Record, error) {
	plaintext = bytes.TrimPrefix(plaintext, utf8BOM)
	if !utf8.Valid(plaintext) {
		return nil, kerrors.ErrInvalidEncoding
	}

	trimmed := bytes.TrimSpace(plaintext)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", kerrors.ErrMalformedDataset)
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedDataset, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Seal validates plaintext as a dataset and encrypts it into the blob layout.
// With compress set the JSON is zstd-compressed before sealing; Load detects
// and reverses that transparently.
func Seal(plaintext, key []byte, alg secrets.Algorithm, compress bool) ([]byte, error) {
	if _, err := Parse(plaintext); err != nil {
		return nil, err
	}

	payload := plaintext
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		payload = enc.EncodeAll(plaintext, make([]byte, 0, len(plaintext)/2))
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to close zstd encoder: %w", err)
		}
	}

	return secrets.SealBlob(payload, key, alg)
}

func inflate(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxInflatedSize))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.DecodeAll(data, nil)
}
