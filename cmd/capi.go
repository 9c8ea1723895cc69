package cmd

import (
	logger "github.com/PolarWolf314/capi/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	envFile    string
	Logger     logger.Logger
)

// Attach registers the global flags and every capi subcommand on root.
func Attach(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./capi.toml if present)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with secrets (overrides env_file)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
			Out:     cmd.OutOrStdout(),
			Err:     cmd.ErrOrStderr(),
		}
		Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
	}
	root.SilenceErrors = true
	root.SilenceUsage = true

	root.AddCommand(serveCmd)
	root.AddCommand(encryptCmd)
	root.AddCommand(decryptCmd)
	root.AddCommand(verifyCmd)
	root.AddCommand(keygenCmd)
	root.AddCommand(logCmd)
	root.AddCommand(ConfigCmd)
}

// Helper functions for testing

// ResetGlobalState resets all global variables and flag values to their
// defaults for testing.
func ResetGlobalState(root *cobra.Command) {
	verbose = false
	debug = false
	configPath = ""
	envFile = ""
	resetFlags(root)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
