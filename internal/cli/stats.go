// internal/cli/stats.go
package cli

import "github.com/spf13/cobra"

// statsCmd groups dataset statistics subcommands.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Group commands for dataset statistics",
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
