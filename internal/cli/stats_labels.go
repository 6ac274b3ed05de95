// internal/cli/stats_labels.go
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/UCREL/HEC/internal/labelstats"
	"github.com/UCREL/HEC/internal/util"
)

// statsLabelsCmd implements 'stats labels', which prints per-label counts for
// each GoEmotions split found in data_dir.
var statsLabelsCmd = &cobra.Command{
	Use:   "labels <data_dir>",
	Short: "Print label statistics for the GoEmotions splits",
	Long: `The 'labels' subcommand reads emotions.txt and each requested split from
data_dir and prints, per label: the raw count, the percentage of texts carrying
the label, and the percentage of its occurrences that share a text with another
label, followed by the number of texts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		labels, err := labelstats.LoadLabels(filepath.Join(dir, "emotions.txt"))
		if err != nil {
			return err
		}

		splitFlag, _ := cmd.Flags().GetString("split")
		plain, _ := cmd.Flags().GetBool("plain")
		expectAll, _ := cmd.Flags().GetBool("expectAll")

		opts := []labelstats.Option{}
		if expectAll {
			opts = append(opts, labelstats.ExpectAll())
		}

		out := cmd.OutOrStdout()
		for _, split := range util.SplitList(splitFlag) {
			path := filepath.Join(dir, split+".tsv")
			report, err := labelstats.ComputeFile(path, labels, append(opts, labelstats.WithSplit(split))...)
			if err != nil {
				return err
			}
			logger.Debug().Str("split", split).Int("texts", report.Texts).Msg("label statistics computed")

			if plain {
				fmt.Fprintf(out, "%s label statistics:\n\n%s\n\n\n", split, labelstats.Format(report))
				continue
			}
			fmt.Fprintf(out, "%s\n\n", labelstats.Render(report))
		}
		return nil
	},
}

func init() {
	statsCmd.AddCommand(statsLabelsCmd)
	statsLabelsCmd.Flags().String("split", "train,dev,test", "comma-separated splits to analyse")
	statsLabelsCmd.Flags().Bool("plain", false, "print plain comma-separated lines instead of a table")
	statsLabelsCmd.Flags().Bool("expectAll", false, "fail if any label never occurs in a split")
}
