// Package errors provides typed error values for capi.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Crypto errors: blob sealing and opening (ErrAuthentication, ErrInvalidKeyLength)
//   - Dataset errors: turning plaintext into records (ErrMalformedDataset)
//   - Configuration errors: startup settings (ErrMissingDecryptionKey, ErrInvalidConfig)
//   - Request errors: API key checks reported to clients (ErrMissingAPIKey, ErrBadAPIKey)
//
// # Startup failures
//
// Anything that prevents the server from starting is wrapped in a
// *StartupError naming the failing stage. Internal packages never exit the
// process; main does, after printing the error:
//
//	app, err := workflows.Bootstrap(ctx, opts)
//	if errors.IsStartup(err) {
//	    // print diagnostic, exit 1
//	}
//
// ErrAuthentication never says whether the key was wrong or the file was
// damaged.
package errors
