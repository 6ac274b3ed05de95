// internal/cli/show.go
package cli

import "github.com/spf13/cobra"

// showCmd groups informational subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for showing information",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
