// Package cli wires the cobra command tree: config loading, state
// store construction, and the check/discover/sync entry points.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/replikit/tap-covid19/internal/adapters/driven/config/file"
	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig   string
	flagStateDir string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "tap-covid19",
	Short: "Replicate COVID-19 CSV data from GitHub repositories",
	Long: `tap-covid19 incrementally replicates COVID-19 tabular data published
as versioned CSV/TSV files in public GitHub repositories. It discovers
candidate files through the code-search API, fetches each file only when
changed since the last run, parses its rows, and emits Singer-shaped
SCHEMA/RECORD/ACTIVATE_VERSION/STATE messages on stdout.

All diagnostics go to stderr; stdout carries only the record stream.

Examples:
  # Verify credentials
  tap-covid19 check --config config.toml

  # Print the stream catalog
  tap-covid19 discover

  # Replicate everything
  tap-covid19 sync --config config.toml

  # Replicate selected streams only
  tap-covid19 sync --streams jh_csse_daily_files,jh_csse_daily`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "directory holding the state database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command tree, returning a process exit code. The
// command context is cancelled on SIGINT or SIGTERM so an interrupted
// sync persists its bookmark before exiting.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

// loadConfig reads and validates the tap configuration.
func loadConfig() (domain.Config, error) {
	return configfile.Load(flagConfig)
}
