package cmd

import (
	"fmt"

	"github.com/PolarWolf314/capi/internal/secrets"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Prints a new random decryption key",
	Long: `Generates a random 256-bit key and prints it base64 encoded.

Examples:
  # Append a new key to .env
  echo "DECRYPTION_KEY=$(capi keygen)" >> .env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.CreateSymmetricKey()
		if err != nil {
			return fmt.Errorf("failed to generate symmetric key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), secrets.EncodeKey(key))
		return nil
	},
}
