package workflows

import (
	"context"

	"github.com/PolarWolf314/capi/internal/configs"
	"github.com/PolarWolf314/capi/internal/dataset"
	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/index"
	"github.com/PolarWolf314/capi/internal/keyring"
	"github.com/PolarWolf314/capi/internal/secrets"
	"github.com/PolarWolf314/capi/internal/server"
)

// Startup stages reported in StartupError.Stage.
const (
	StageConfig      = "config"
	StageKey         = "decryption key"
	StageLoadDataset = "load dataset"
)

// BootstrapOptions configures the startup workflow.
type BootstrapOptions struct {
	// Config supplies paths, variable names and the algorithm.
	Config *configs.Config

	// Env resolves the decryption key and the API key slots.
	Env keyring.Source
}

// BootstrapResult contains everything the server needs, plus a summary for
// startup logging.
type BootstrapResult struct {
	// App is the immutable request context.
	App *server.App

	// DataPath is the blob that was loaded.
	DataPath string

	// Slots lists the API key slots that resolved to a key.
	Slots []keyring.Slot
}

// Bootstrap decrypts the dataset, builds the index and loads the key ring,
// in that order, and returns them as one immutable App.
//
// Every failure is a *errors.StartupError and no App is returned:
// Returns ErrMissingDecryptionKey if the key variable is unset.
// Returns ErrInvalidKeyEncoding or ErrInvalidKeyLength for a bad key.
// Returns ErrDatasetUnreadable, ErrAuthentication, ErrInvalidEncoding or
// ErrMalformedDataset if the blob cannot be loaded.
//
// An empty key ring is not an error; the server then rejects every request
// with 403. Callers should warn when Slots is empty.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*BootstrapResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = configs.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, kerrors.Startup(StageConfig, err)
	}

	alg, err := secrets.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, kerrors.Startup(StageConfig, err)
	}

	keyText, ok := lookup(opts.Env, cfg.KeyVariable)
	if !ok || keyText == "" {
		return nil, kerrors.Startup(StageKey, kerrors.ErrMissingDecryptionKey)
	}
	key, err := secrets.DecodeKey(keyText)
	if err != nil {
		return nil, kerrors.Startup(StageKey, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, kerrors.Startup(StageLoadDataset, err)
	}
	records, err := dataset.Load(cfg.DataPath, key, alg)
	if err != nil {
		return nil, kerrors.Startup(StageLoadDataset, err)
	}
	ix := index.Build(records)

	ring := keyring.Build(sourceOrEmpty(opts.Env), cfg.APIKeyVariable, cfg.MaxAPIKeys)

	return &BootstrapResult{
		App:      &server.App{Index: ix, Keys: ring},
		DataPath: cfg.DataPath,
		Slots:    ring.Slots(),
	}, nil
}

func lookup(src keyring.Source, name string) (string, bool) {
	if src == nil {
		return "", false
	}
	return src.Lookup(name)
}

func sourceOrEmpty(src keyring.Source) keyring.Source {
	if src == nil {
		return keyring.MapSource{}
	}
	return src
}
