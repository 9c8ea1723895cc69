package cmd

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/PolarWolf314/capi/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	verifyCmd.Flags().String("data", "", "encrypted dataset (default data.enc)")
	verifyCmd.Flags().String("algorithm", "", "cipher the dataset was sealed with")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks that the server would start",
	Long: `Runs the same startup steps as serve (decrypt the dataset, build the
index, load the API keys) and reports the result without listening.

Exits non-zero exactly when serve would refuse to start. An empty key ring
is reported as a warning, since serve starts without one.

Examples:
  # Check the deployment environment
  capi verify

  # Check another dataset with a specific .env
  capi verify --data staging.enc --env-file staging.env`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting verify command")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		stringFlag(cmd, "data", &cfg.DataPath)
		stringFlag(cmd, "algorithm", &cfg.Algorithm)

		env, err := loadEnvironment(cfg)
		if err != nil {
			return err
		}

		s, cleanup := startSpinner(cmd.OutOrStdout(), "Verifying dataset and keys...")
		defer cleanup()

		result, err := workflows.Verify(cmd.Context(), workflows.BootstrapOptions{
			Config: cfg,
			Env:    env,
		})
		if err != nil {
			msg := failureMessage("Verification failed", err)
			if hint := keyHint(err); hint != "" {
				msg += "\n" + hint
			}
			s.FinalMSG = msg
			return err
		}

		names := make([]string, 0, len(result.Slots))
		for _, slot := range result.Slots {
			names = append(names, slot.Name)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s is ready to serve\n", ui.Mark(true), ui.Path.Sprint(result.DataPath))
		fmt.Fprintf(&b, "  Records: %d\n", result.Records)
		if result.Records > 0 {
			fmt.Fprintf(&b, "  IDs:     %d to %d\n", result.LowestID, result.HighestID)
		}
		if len(names) == 0 {
			fmt.Fprintf(&b, "  API keys: 0\n%s %v, every request will be rejected with 403\n",
				ui.Warning.Sprint("!"), kerrors.ErrNoAPIKeys)
			fmt.Fprintf(&b, "%s Set at least one API key, e.g. %s", ui.Info.Sprint("→"), ui.Code.Sprint("CAPI_API_KEY=..."))
		} else {
			fmt.Fprintf(&b, "  API keys: %d %s", len(result.Slots), ui.Muted.Sprint(strings.Join(names, ", ")))
		}
		s.FinalMSG = b.String()
		return nil
	},
}
