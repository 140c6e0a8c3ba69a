// cmd/gstat/root.go
package gstat

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mwiater/gstat/internal/config"
	"github.com/mwiater/gstat/internal/ingest"
	"github.com/mwiater/gstat/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zap.NewNop()
)

// rootCmd is the base Cobra command for the gstat application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "gstat",
	Short: "Latency percentiles and plots for Gatling reports",
	Long: `gstat reads the simulation.csv of one Gatling report directory, or of every
<simulation>-<timestamp> report below a directory, and summarizes response
times per simulation, run and request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadWith(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		l, err := logging.New(c.Log.Level, c.Debug)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default ./gstat.yaml when present)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("method", "exact", "percentile method (exact or tdigest)")
	flags.String("data-file", ingest.DefaultDataFile, "raw log file name inside each report directory")
	flags.String("mode", "distribution", "plot mode (distribution, stacked, scatter or scatter-all)")

	viper.BindPFlag(config.KeyDebug, flags.Lookup("debug"))
	viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	viper.BindPFlag(config.KeyMethod, flags.Lookup("method"))
	viper.BindPFlag(config.KeyDataFile, flags.Lookup("data-file"))
	viper.BindPFlag(config.KeyPlotMode, flags.Lookup("mode"))
}

// loadDataset reads dir with the effective configuration.
func loadDataset(cmd *cobra.Command, dir string) (*ingest.LoadResult, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := ingest.Load(ctx, dir, ingest.Options{
		DataFile:  cfg.DataFile,
		Algorithm: cfg.Algorithm,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s: %v\n", s.Dir, s.Err)
	}
	return res, nil
}
