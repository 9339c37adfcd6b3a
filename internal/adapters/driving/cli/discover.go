package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/replikit/tap-covid19/internal/core/services"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the stream catalog as JSON",
	Long: `Discover prints the catalog of every replicable stream to stdout:
file streams, their row-level children, key properties, replication
method and replication keys. The output can be edited to select a
subset of streams and does not contact the GitHub API.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		catalog := services.Discover()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
