package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/capi/internal/configs"
	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/PolarWolf314/capi/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode
// and stderr is a terminal.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(out io.Writer, message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	spin := !verbose && !debug && utils.IsTerminal(os.Stderr)
	if spin {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if spin {
			log.SetOutput(os.Stderr)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if spin {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// loadConfig reads the config file and applies the global --env-file flag.
// An explicit --config must exist; the default capi.toml is optional.
func loadConfig() (*configs.Config, error) {
	path, optional := configPath, false
	if path == "" {
		path, optional = configs.DefaultConfigFile, true
	}
	Logger.Debugf("Loading config from %s (optional=%t)", path, optional)

	cfg, err := configs.Load(path, optional)
	if err != nil {
		return nil, err
	}
	if envFile != "" {
		cfg.EnvFile = envFile
	}
	return cfg, nil
}

// loadEnvironment reads the secrets environment for cfg.
func loadEnvironment(cfg *configs.Config) (*configs.Environment, error) {
	Logger.Debugf("Loading environment with dotenv file %q", cfg.EnvFile)
	return configs.LoadEnvironment(cfg.EnvFile)
}

// stringFlag copies a changed string flag into dst.
func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// failureMessage formats err for a spinner's final message.
func failureMessage(summary string, err error) string {
	return ui.Mark(false) + " " + summary + "\n" +
		ui.Error.Sprint("Error: ") + err.Error()
}

// keyHint suggests a fix for common key and blob errors.
func keyHint(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrMissingDecryptionKey):
		return ui.Info.Sprint("→") + " Set the decryption key in the environment or your " + ui.Path.Sprint(".env") + " file"
	case errors.Is(err, kerrors.ErrAuthentication):
		return ui.Info.Sprint("→") + " The key might be wrong or the file is corrupted"
	}
	return ""
}
