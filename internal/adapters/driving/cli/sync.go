package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/replikit/tap-covid19/internal/adapters/driven/emitter"
	statesqlite "github.com/replikit/tap-covid19/internal/adapters/driven/state/sqlite"
	"github.com/replikit/tap-covid19/internal/connectors/github"
	"github.com/replikit/tap-covid19/internal/core/services"
	"github.com/replikit/tap-covid19/internal/logger"
	"github.com/replikit/tap-covid19/internal/normalisers"
)

var flagStreams []string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replicate the selected streams to stdout",
	Long: `Sync replicates data from GitHub to stdout as a stream of Singer
messages. Each selected file stream is searched, changed files are
fetched and parsed, and file plus row records are emitted together with
bookmark state after every page.

By default every stream is selected. Use --streams to replicate a
subset; naming a file stream implicitly includes its row children.

Examples:
  tap-covid19 sync --config config.toml
  tap-covid19 sync --streams nytimes_us_states_files,nytimes_us_states`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog := services.Discover()
		if len(flagStreams) > 0 {
			if err := catalog.SelectOnly(flagStreams); err != nil {
				return err
			}
		} else {
			catalog.SelectAll()
		}

		states, err := statesqlite.NewStore(flagStateDir)
		if err != nil {
			return fmt.Errorf("opening state store: %w", err)
		}
		defer states.Close()

		orch := services.NewOrchestrator(
			github.NewClient(cmd.Context(), cfg.APIToken, cfg.UserAgent),
			states,
			emitter.New(os.Stdout),
			normalisers.Default(),
			cfg,
		)

		summary, err := orch.Run(cmd.Context(), catalog)
		if summary != nil {
			for _, stream := range catalog.SelectedStreams() {
				if n, ok := summary.FileRecords[stream]; ok {
					logger.Info("stream %s: %d file records", stream, n)
				}
				if n, ok := summary.RowRecords[stream]; ok {
					logger.Info("stream %s: %d row records", stream, n)
				}
			}
		}
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringSliceVar(&flagStreams, "streams", nil, "comma-separated list of streams to replicate")
	rootCmd.AddCommand(syncCmd)
}
