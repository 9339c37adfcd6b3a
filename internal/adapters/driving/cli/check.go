package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replikit/tap-covid19/internal/connectors/github"
	"github.com/replikit/tap-covid19/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured GitHub credentials",
	Long: `Check loads the configuration, authenticates against the GitHub API
with the configured token, and reports whether the credentials are
usable. It exits non-zero when the config is invalid or the token is
rejected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := github.NewClient(cmd.Context(), cfg.APIToken, cfg.UserAgent)
		if err := client.CheckAccess(cmd.Context()); err != nil {
			return fmt.Errorf("credential check failed: %w", err)
		}

		logger.Info("credentials OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
