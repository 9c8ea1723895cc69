package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/capi/internal/configs"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/spf13/cobra"
)

// ConfigCmd groups commands that manage capi.toml.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the capi configuration file",
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a config file with the default settings",
	Long: `Writes capi.toml (or the file named by --config) with every setting at
its default value, ready to edit.

Examples:
  capi config init
  capi config init --config /etc/capi/capi.toml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = configs.DefaultConfigFile
		}

		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(false)+" "+ui.Path.Sprint(path)+" already exists")
				fmt.Fprintln(cmd.OutOrStdout(), ui.Info.Sprint("→")+" Use "+ui.Flag.Sprint("--force")+" to overwrite it")
				return fmt.Errorf("%s already exists", path)
			}
		}

		Logger.Debugf("Writing default config to %s", path)
		if err := configs.SaveTOML(path, configs.Default()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Mark(true)+" Wrote "+ui.Path.Sprint(path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the effective configuration",
	Long: `Prints the configuration serve would use: defaults, overlaid with the
config file and the global --env-file flag. Secrets are never part of the
config and are not shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return configs.EncodeTOML(cmd.OutOrStdout(), cfg)
	},
}
