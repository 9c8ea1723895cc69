package cmd

import (
	"fmt"
	"net"

	"github.com/PolarWolf314/capi/internal/audit"
	"github.com/PolarWolf314/capi/internal/configs"
	kerrors "github.com/PolarWolf314/capi/internal/errors"
	"github.com/PolarWolf314/capi/internal/metrics"
	"github.com/PolarWolf314/capi/internal/server"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/PolarWolf314/capi/internal/workflows"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var serveQuiet bool

func init() {
	serveCmd.Flags().String("addr", "", "address to listen on (default :8000)")
	serveCmd.Flags().String("data", "", "encrypted dataset (default data.enc)")
	serveCmd.Flags().String("algorithm", "", "cipher the dataset was sealed with")
	serveCmd.Flags().String("access-log", "", "append a JSON Lines access log to this file")
	serveCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	serveCmd.Flags().Float64("rate-limit", 0, "requests per second across all clients (0 disables)")
	serveCmd.Flags().BoolVarP(&serveQuiet, "quiet", "q", false, "do not print the banner")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Decrypts the dataset and serves record lookups",
	Long: `Decrypts the dataset, builds the lookup index, loads the API keys and
serves GET /{id} until interrupted.

Startup fails, and nothing is served, if the decryption key is missing or
wrong or the dataset cannot be parsed. With no API key set the server
still starts, but rejects every request with 403.

The decryption key is read from DECRYPTION_KEY and API keys from
CAPI_API_KEY and CAPI_API_KEY_1 through CAPI_API_KEY_32, either in the
process environment or in the .env file.

Examples:
  # Serve with defaults
  capi serve

  # Serve on another port with an access log
  capi serve --addr :9000 --access-log access.jsonl

  # Expose Prometheus metrics
  capi serve --metrics-addr 127.0.0.1:9100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting serve command")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyServeFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		env, err := loadEnvironment(cfg)
		if err != nil {
			return err
		}

		boot, err := workflows.Bootstrap(cmd.Context(), workflows.BootstrapOptions{
			Config: cfg,
			Env:    env,
		})
		if err != nil {
			if hint := keyHint(err); hint != "" {
				Logger.WarnfAlways("%s", hint)
			}
			return err
		}

		if !serveQuiet {
			figure.NewFigure("capi", "", true).Print()
			fmt.Fprintln(cmd.OutOrStdout())
		}
		Logger.Infof("Loaded %d records from %s", boot.App.Index.Len(), boot.DataPath)
		for _, slot := range boot.Slots {
			Logger.Infof("API key %s loaded (%d characters)", slot.Name, slot.Len())
		}
		if len(boot.Slots) == 0 {
			Logger.WarnfAlways("%v, every request will be rejected with 403", kerrors.ErrNoAPIKeys)
		}

		var opts []server.Option
		if cfg.AccessLog != "" {
			accessLog, err := audit.Open(cfg.AccessLog)
			if err != nil {
				return fmt.Errorf("opening access log: %w", err)
			}
			defer accessLog.Close()
			opts = append(opts, server.WithAccessLog(accessLog))
		}
		if cfg.MetricsAddress != "" {
			opts = append(opts, server.WithMetrics(metrics.New()))
		}

		out := cmd.OutOrStdout()
		opts = append(opts, server.WithReady(func(addr net.Addr) {
			fmt.Fprintf(out, "%s Serving %d records on %s\n",
				ui.Mark(true), boot.App.Index.Len(), ui.Path.Sprint(addr.String()))
		}))

		return server.New(boot.App, serverConfig(cfg), Logger, opts...).Serve(cmd.Context())
	},
}

func applyServeFlags(cmd *cobra.Command, cfg *configs.Config) {
	stringFlag(cmd, "addr", &cfg.Address)
	stringFlag(cmd, "data", &cfg.DataPath)
	stringFlag(cmd, "algorithm", &cfg.Algorithm)
	stringFlag(cmd, "access-log", &cfg.AccessLog)
	stringFlag(cmd, "metrics-addr", &cfg.MetricsAddress)
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
	}
}

func serverConfig(cfg *configs.Config) *server.Config {
	sc := server.DefaultConfig()
	sc.Address = cfg.Address
	sc.MetricsAddress = cfg.MetricsAddress
	sc.APIKeyHeader = cfg.APIKeyHeader
	sc.RateLimit = cfg.RateLimit
	sc.RateBurst = cfg.RateBurst
	if cfg.ShutdownTimeout.Duration > 0 {
		sc.ShutdownTimeout = cfg.ShutdownTimeout.Duration
	}
	return sc
}
