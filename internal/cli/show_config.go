// internal/cli/show_config.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/UCREL/HEC/internal/appconfig"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the configuration file is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := appconfig.Defaults()
		file := ""
		if c := GetConfig(); c != nil {
			cfg = *c
			file = c.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
