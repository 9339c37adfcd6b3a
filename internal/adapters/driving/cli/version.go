package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tap-covid19 version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("tap-covid19", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
