package workflows

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PolarWolf314/capi/internal/dataset"
	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/secrets"
	"github.com/PolarWolf314/capi/internal/utils"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// InputPath is the plaintext JSON dataset, or "-" for Stdin.
	InputPath string

	// Stdin is read when InputPath is "-". Nil means os.Stdin.
	Stdin io.Reader

	// OutputPath is where the blob is written.
	OutputPath string

	// Key is base64 key text to reuse. If empty, a new key is generated.
	Key string

	// Algorithm selects the AEAD; empty means the default.
	Algorithm string

	// Compress zstd-compresses the JSON before sealing.
	Compress bool

	// Force overwrites an existing OutputPath.
	Force bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// OutputPath is the blob that was written.
	OutputPath string

	// Key is the base64 key the blob was sealed with.
	Key string

	// GeneratedKey is true when Key was created by this run.
	GeneratedKey bool

	// Records is the number of records in the dataset.
	Records int

	// Size is the blob size in bytes.
	Size int
}

// Encrypt seals a plaintext JSON dataset into a blob the server can load.
//
// The input is parsed first, so a file the server would refuse is never
// sealed. The key is returned to the caller and never written to disk.
//
// Returns ErrOutputExists if OutputPath exists and Force is not set.
// Returns ErrMalformedDataset or ErrInvalidEncoding for a bad input file.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	alg, err := secrets.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		if _, err := os.Stat(opts.OutputPath); err == nil {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrOutputExists, opts.OutputPath)
		}
	}

	plaintext, err := utils.ReadInput(opts.InputPath, opts.Stdin)
	if err != nil {
		return nil, err
	}

	records, err := dataset.Parse(plaintext)
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{
		OutputPath: opts.OutputPath,
		Records:    len(records),
	}

	var key []byte
	if opts.Key != "" {
		key, err = secrets.DecodeKey(opts.Key)
		if err != nil {
			return nil, err
		}
	} else {
		key, err = secrets.CreateSymmetricKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
		}
		result.GeneratedKey = true
	}
	result.Key = secrets.EncodeKey(key)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blob, err := dataset.Seal(plaintext, key, alg, opts.Compress)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(opts.OutputPath, blob, 0600); err != nil {
		return nil, fmt.Errorf("failed to write to %s: %w", opts.OutputPath, err)
	}
	result.Size = len(blob)

	return result, nil
}
