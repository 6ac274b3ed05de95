// internal/cli/fetch.go
package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UCREL/HEC/internal/appconfig"
	"github.com/UCREL/HEC/internal/fetch"
)

// fetchCmd represents the 'fetch' command group and acts as a namespace
// for subcommands that download datasets and models.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Group commands for downloading datasets and models",
	Long:  "The 'fetch' command groups related subcommands that download resources into a local directory. It performs no action on its own.",
}

var (
	downloadedMark = color.New(color.FgGreen).SprintFunc()
	skippedMark    = color.New(color.FgYellow).SprintFunc()
	failedMark     = color.New(color.FgRed).SprintFunc()
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.PersistentFlags().Int("fetchConcurrency", 4, "number of parallel downloads")
	_ = viper.BindPFlag("fetchConcurrency", fetchCmd.PersistentFlags().Lookup("fetchConcurrency"))
}

func newFetcher() *fetch.Fetcher {
	cfg := appconfig.Defaults()
	if c := GetConfig(); c != nil {
		cfg = *c
	}
	f := fetch.New(cfg.RequestTimeout(), logger)
	f.Concurrency = cfg.FetchWorkers()
	return f
}

// printFetchResults writes one line per resource.
func printFetchResults(w io.Writer, results []fetch.Result) {
	for _, r := range results {
		switch r.Status {
		case fetch.StatusDownloaded:
			fmt.Fprintf(w, "%s %s (%s)\n", downloadedMark("downloaded"), r.Path, humanize.IBytes(uint64(r.Bytes)))
		case fetch.StatusSkipped:
			fmt.Fprintf(w, "%s %s (already present)\n", skippedMark("skipped"), r.Path)
		case fetch.StatusFailed:
			fmt.Fprintf(w, "%s %s: %v\n", failedMark("failed"), r.Resource.URL, r.Err)
		}
	}
}
