// internal/cli/fetch_dataset.go
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UCREL/HEC/internal/fetch"
)

// fetchDatasetCmd implements 'fetch dataset', which downloads the GoEmotions
// splits and label list into a directory.
var fetchDatasetCmd = &cobra.Command{
	Use:   "dataset <data_dir>",
	Short: "Download the GoEmotions dataset",
	Long:  "The 'dataset' subcommand downloads train.tsv, dev.tsv, test.tsv and emotions.txt into data_dir, creating it if needed. Files already present are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resources := fetch.GoEmotions(viper.GetString("datasetBaseURL"))
		results, err := newFetcher().Fetch(cmd.Context(), args[0], resources)
		printFetchResults(cmd.OutOrStdout(), results)
		return err
	},
}

func init() {
	fetchCmd.AddCommand(fetchDatasetCmd)
	fetchDatasetCmd.Flags().String("datasetBaseURL", fetch.GoEmotionsBaseURL, "base URL the dataset files are served from")
	_ = viper.BindPFlag("datasetBaseURL", fetchDatasetCmd.Flags().Lookup("datasetBaseURL"))
}
