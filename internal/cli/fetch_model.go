// internal/cli/fetch_model.go
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UCREL/HEC/internal/fetch"
)

// fetchModelCmd implements 'fetch model', which downloads files from a model
// repository so that an annotator service can load them offline.
var fetchModelCmd = &cobra.Command{
	Use:   "model <download_dir> <repo>",
	Short: "Download model files from a Hugging Face repository",
	Long:  "The 'model' subcommand downloads each --file from the given repository revision into download_dir. Files already present are skipped.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		revision, _ := cmd.Flags().GetString("revision")
		resources, err := fetch.HuggingFace(viper.GetString("modelBaseURL"), args[1], revision, fetchModelFiles)
		if err != nil {
			return err
		}
		results, err := newFetcher().Fetch(cmd.Context(), args[0], resources)
		printFetchResults(cmd.OutOrStdout(), results)
		return err
	},
}

var fetchModelFiles []string

func init() {
	fetchCmd.AddCommand(fetchModelCmd)
	fetchModelCmd.Flags().StringSliceVar(&fetchModelFiles, "file", nil, "file to download from the repository (repeatable or comma-separated)")
	_ = fetchModelCmd.MarkFlagRequired("file")
	fetchModelCmd.Flags().String("revision", "main", "branch, tag or commit to download from")
	fetchModelCmd.Flags().String("modelBaseURL", fetch.HuggingFaceBaseURL, "base URL of the model hub")
	_ = viper.BindPFlag("modelBaseURL", fetchModelCmd.Flags().Lookup("modelBaseURL"))
}
