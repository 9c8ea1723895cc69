package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/capi/internal/dataset"
	"github.com/PolarWolf314/capi/internal/secrets"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// InputPath is the encrypted blob.
	InputPath string

	// Key is the base64 decryption key.
	Key string

	// Algorithm selects the AEAD; empty means the default.
	Algorithm string

	// Pretty re-indents the JSON output.
	Pretty bool
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// Plaintext is the dataset JSON.
	Plaintext []byte

	// Records is the number of records in the dataset.
	Records int
}

// Decrypt opens a blob and returns its JSON, checking that the server would
// accept it. Nothing is written to disk.
//
// Returns ErrDatasetUnreadable if the blob cannot be read.
// Returns ErrAuthentication if the key does not open the blob.
// Returns ErrInvalidEncoding or ErrMalformedDataset for bad contents.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	alg, err := secrets.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	key, err := secrets.DecodeKey(opts.Key)
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.InputPath, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plaintext, err := dataset.Decrypt(blob, key, alg)
	if err != nil {
		return nil, err
	}

	records, err := dataset.Parse(plaintext)
	if err != nil {
		return nil, err
	}

	if opts.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, bytes.TrimPrefix(plaintext, []byte{0xef, 0xbb, 0xbf}), "", "  "); err != nil {
			return nil, fmt.Errorf("formatting dataset: %w", err)
		}
		buf.WriteByte('\n')
		plaintext = buf.Bytes()
	}

	return &DecryptResult{Plaintext: plaintext, Records: len(records)}, nil
}
