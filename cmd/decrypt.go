package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/PolarWolf314/capi/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	decryptIn     string
	decryptOut    string
	decryptPretty bool
	decryptForce  bool
)

func init() {
	decryptCmd.Flags().StringVar(&decryptIn, "in", "", "encrypted dataset (default data_path from config)")
	decryptCmd.Flags().StringVar(&decryptOut, "out", "-", "write the JSON here, - for stdout")
	decryptCmd.Flags().String("algorithm", "", "cipher the dataset was sealed with")
	decryptCmd.Flags().BoolVar(&decryptPretty, "pretty", false, "indent the JSON output")
	decryptCmd.Flags().BoolVarP(&decryptForce, "force", "f", false, "overwrite an existing output file")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypts the dataset for inspection",
	Long: `Decrypts the dataset with the key from the environment and prints its
JSON, checking that the server would accept it.

Use this to confirm a key opens a blob before deploying it. The key is read
from DECRYPTION_KEY (or key_variable in capi.toml) in the process
environment or the .env file.

Examples:
  # Print the dataset
  capi decrypt --pretty

  # Write the dataset to a file
  capi decrypt --in data.enc --out data.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stringFlag(cmd, "algorithm", &cfg.Algorithm)

		in := decryptIn
		if in == "" {
			in = cfg.DataPath
		}

		env, err := loadEnvironment(cfg)
		if err != nil {
			return err
		}

		toStdout := decryptOut == "" || decryptOut == "-"
		if !toStdout && !decryptForce {
			if _, err := os.Stat(decryptOut); err == nil {
				return fmt.Errorf("%s already exists, use --force to overwrite", decryptOut)
			}
		}

		result, err := workflows.Decrypt(cmd.Context(), workflows.DecryptOptions{
			InputPath: in,
			Key:       env.Get(cfg.KeyVariable),
			Algorithm: cfg.Algorithm,
			Pretty:    decryptPretty,
		})
		if err != nil {
			if hint := keyHint(err); hint != "" {
				Logger.WarnfAlways("%s", hint)
			}
			return err
		}
		Logger.Infof("Decrypted %d records from %s", result.Records, in)

		if toStdout {
			_, err := cmd.OutOrStdout().Write(result.Plaintext)
			return err
		}

		// #nosec G306 -- the plaintext is as sensitive as the key; owner only.
		if err := os.WriteFile(decryptOut, result.Plaintext, 0600); err != nil {
			return fmt.Errorf("failed to write to %s: %w", decryptOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Decrypted %d records into %s\n",
			ui.Mark(true), result.Records, ui.Path.Sprint(decryptOut))
		return nil
	},
}
