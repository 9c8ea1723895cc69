// Package logger provides leveled logging for capi.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only errors and WarnfAlways messages are shown.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Shown with --verbose or --debug
//	Logger.WarnfAlways()    // Always shown
//	Logger.Errorf()         // Always shown, on stderr
//	Logger.ErrorfAndReturn() // Builds an error for cobra's RunE
//
// The server logs one info line per request. API keys are never written,
// not even on rejection.
package logger
