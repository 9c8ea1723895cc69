package errors

import (
	"errors"
	"fmt"
)

// Cryptographic errors indicate failures while sealing or opening the dataset blob.
var (
	// ErrAuthentication indicates the blob could not be opened. It is returned
	// for a wrong key, a corrupted file and a tampered file alike.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrInvalidKeyLength indicates the symmetric key is not 256 bits.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrInvalidKeyEncoding indicates the key text is not valid base64.
	ErrInvalidKeyEncoding = errors.New("invalid symmetric key encoding")

	// ErrUnknownAlgorithm indicates the configured cipher is not supported.
	ErrUnknownAlgorithm = errors.New("unknown cipher algorithm")
)

// Dataset errors indicate the decrypted blob could not be turned into records.
var (
	// ErrDatasetUnreadable indicates the blob file could not be read.
	ErrDatasetUnreadable = errors.New("dataset file could not be read")

	// ErrInvalidEncoding indicates the plaintext is not valid UTF-8.
	ErrInvalidEncoding = errors.New("dataset is not valid UTF-8")

	// ErrMalformedDataset indicates the plaintext is not a JSON array of records.
	ErrMalformedDataset = errors.New("dataset is not a JSON array of records")
)

// Configuration errors indicate missing or invalid startup settings.
var (
	// ErrMissingDecryptionKey indicates the decryption key variable is unset.
	ErrMissingDecryptionKey = errors.New("decryption key is not set")

	// ErrNoAPIKeys describes an empty key ring. It is a warning, not a
	// startup failure.
	ErrNoAPIKeys = errors.New("no API keys configured")

	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")
)

// Request errors are reported to HTTP clients.
var (
	// ErrMissingAPIKey indicates the request carried no API key header.
	ErrMissingAPIKey = errors.New("missing token")

	// ErrBadAPIKey indicates the request's API key is not in the key ring.
	ErrBadAPIKey = errors.New("bad api key")
)

// StartupError wraps any failure that must stop the process before it serves.
// Only the process entry point acts on it.
type StartupError struct {
	// Stage names the bootstrap step that failed, e.g. "load dataset".
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed during %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Startup wraps err in a StartupError for the given stage. A nil err stays nil.
func Startup(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StartupError{Stage: stage, Err: err}
}

// IsStartup reports whether err is or wraps a StartupError.
func IsStartup(err error) bool {
	var se *StartupError
	return errors.As(err, &se)
}

// File errors indicate issues with files written by the CLI.
var (
	// ErrOutputExists indicates the output file exists and overwriting was not requested.
	ErrOutputExists = errors.New("output file already exists")
)
