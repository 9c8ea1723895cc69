package cmd

import (
	"fmt"

	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/PolarWolf314/capi/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	encryptIn       string
	encryptOut      string
	encryptKey      string
	encryptKeyEnv   string
	encryptCompress bool
	encryptForce    bool
)

func init() {
	encryptCmd.Flags().StringVar(&encryptIn, "in", "data.json", "plaintext JSON dataset, - for stdin")
	encryptCmd.Flags().StringVar(&encryptOut, "out", "", "encrypted output (default data_path from config)")
	encryptCmd.Flags().StringVar(&encryptKey, "key", "", "base64 key to reuse instead of generating one")
	encryptCmd.Flags().StringVar(&encryptKeyEnv, "key-env", "", "read the key to reuse from this environment variable")
	encryptCmd.Flags().String("algorithm", "", "cipher to seal with (aes-256-gcm or chacha20-poly1305)")
	encryptCmd.Flags().BoolVar(&encryptCompress, "compress", false, "zstd-compress the dataset before sealing")
	encryptCmd.Flags().BoolVarP(&encryptForce, "force", "f", false, "overwrite an existing output file")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypts a JSON dataset for serving",
	Long: `Reads a plaintext JSON dataset, checks that it parses, and seals it
into an encrypted blob the server can load.

A new 256-bit key is generated unless --key or --key-env is given. The key
is printed once and never written to disk; store it as DECRYPTION_KEY in
the server's environment.

Examples:
  # Encrypt data.json into data.enc with a new key
  capi encrypt

  # Re-encrypt with an existing key
  capi encrypt --in data.json --out data.enc --key-env DECRYPTION_KEY --force

  # Compress before sealing
  capi encrypt --compress

  # Seal a dataset produced by another tool
  generate-dataset | capi encrypt --in - --out data.enc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stringFlag(cmd, "algorithm", &cfg.Algorithm)

		out := encryptOut
		if out == "" {
			out = cfg.DataPath
		}

		key := encryptKey
		if key == "" && encryptKeyEnv != "" {
			env, err := loadEnvironment(cfg)
			if err != nil {
				return err
			}
			key = env.Get(encryptKeyEnv)
			if key == "" {
				return fmt.Errorf("%s is not set", encryptKeyEnv)
			}
		}

		s, cleanup := startSpinner(cmd.OutOrStdout(), "Encrypting dataset...")
		defer cleanup()

		result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
			InputPath:  encryptIn,
			Stdin:      cmd.InOrStdin(),
			OutputPath: out,
			Key:        key,
			Algorithm:  cfg.Algorithm,
			Compress:   encryptCompress,
			Force:      encryptForce,
		})
		if err != nil {
			Logger.Debugf("Encrypt failed: %v", err)
			s.FinalMSG = failureMessage("Failed to encrypt "+ui.Path.Sprint(encryptIn), err)
			return err
		}

		Logger.Infof("Sealed %d records into %d bytes", result.Records, result.Size)

		msg := ui.Mark(true) + fmt.Sprintf(" Encrypted %d records into ", result.Records) +
			ui.Path.Sprint(result.OutputPath)
		if result.GeneratedKey {
			msg += "\n" + ui.Warning.Sprint("!") + " Save this key now, it is not stored anywhere:" +
				"\n\n    " + ui.Secret.Sprint(cfg.KeyVariable+"="+result.Key) + "\n"
		}
		s.FinalMSG = msg
		return nil
	},
}
