package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PolarWolf314/capi/cmd"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capi",
	Short: "capi - serves records from an encrypted JSON dataset",
	Long: `capi decrypts a JSON dataset at startup and serves its records by
position to clients holding an API key.

Usage:
  capi <command> [flags]

Available Commands:
  serve      Decrypt the dataset and serve lookups
  encrypt    Seal a JSON dataset for serving
  decrypt    Open the dataset for inspection
  verify     Check that serve would start
  keygen     Print a new decryption key
  log        View the access log
  config     Manage capi.toml

Run 'capi help <command>' for more details on a specific command.
`,
}

func init() {
	cmd.Attach(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Mark(false)+" "+err.Error())
		stop()
		os.Exit(1)
	}
}
