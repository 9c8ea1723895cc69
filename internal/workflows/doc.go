// Package workflows provides high-level orchestration for capi commands.
//
// Workflows coordinate the secrets, dataset, index and keyring packages to
// implement complete user-facing features, independent of CLI concerns like
// flag parsing, spinners and output formatting.
//
// # Available Workflows
//
//   - Bootstrap: decrypts the dataset and builds the server's App
//   - Verify: Bootstrap without serving, for deployment checks
//   - Encrypt: seals a plaintext JSON dataset and hands back the key
//   - Decrypt: opens a blob for inspection
//
// # Error Handling
//
// Bootstrap wraps every failure in *errors.StartupError, naming the stage
// that failed. The cmd layer prints it and main exits non-zero before any
// listener is bound:
//
//	boot, err := workflows.Bootstrap(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // wrong key or damaged blob
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
