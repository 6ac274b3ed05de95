// internal/cli/annotate.go
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/UCREL/HEC/internal/annotatorfactory"
	"github.com/UCREL/HEC/internal/appconfig"
	"github.com/UCREL/HEC/internal/batch"
	"github.com/UCREL/HEC/internal/benchmark"
	"github.com/UCREL/HEC/internal/pipeline"
	"github.com/UCREL/HEC/internal/resource"
)

// Seams for tests.
var (
	newAnnotator = annotatorfactory.New
	newSamplers  = annotatorfactory.Samplers
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <text_file> <output_file> <batch_size>",
	Short: "Annotate a text file paragraph by paragraph and benchmark the run",
	Long: `The 'annotate' command splits a text file into paragraphs (blocks separated by
blank lines), sends them to the configured annotator batch_size paragraphs at a
time, and writes every entity found as a TSV row:

  paragraph<TAB>text<TAB>label<TAB>start<TAB>end

Timing and memory statistics are logged and written as JSON to the results
directory.`,
	Args: cobra.MatchAll(cobra.ExactArgs(3), batchSizeArg),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().String("device", appconfig.DeviceCPU, "device to run on: cpu or gpu")
	annotateCmd.Flags().Int("gpuIndex", 0, "GPU to use and sample when --device=gpu")
	annotateCmd.Flags().String("annotator", appconfig.AnnotatorGazetteer, "annotator backend: gazetteer or remote")
	annotateCmd.Flags().String("gazetteer", "", "gazetteer file (LABEL<TAB>phrase per line)")
	annotateCmd.Flags().Bool("caseFold", false, "match gazetteer phrases case-insensitively")
	annotateCmd.Flags().String("endpoint", "", "NER service URL for the remote annotator")
	annotateCmd.Flags().String("model", "", "model name forwarded to the NER service")
	annotateCmd.Flags().Int("timeout", 0, "request timeout in seconds for the remote annotator (0 = default)")
	annotateCmd.Flags().Int("sampleInterval", resource.DefaultInterval, "paragraphs between memory samples")
	annotateCmd.Flags().String("resultsDir", benchmark.DefaultResultsDir, "directory for benchmark result files")

	for _, name := range []string{"device", "gpuIndex", "annotator", "gazetteer", "caseFold", "endpoint", "model", "timeout", "sampleInterval", "resultsDir"} {
		_ = viper.BindPFlag(name, annotateCmd.Flags().Lookup(name))
	}
}

// parseBatchSize converts the batch_size argument.
func parseBatchSize(arg string) (int, error) {
	size, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: batch size %q is not an integer", batch.ErrInvalidConfiguration, arg)
	}
	return size, batch.Validate(size)
}

// batchSizeArg rejects a bad batch size during argument validation, which
// cobra runs before PersistentPreRunE opens the log file.
func batchSizeArg(_ *cobra.Command, args []string) error {
	_, err := parseBatchSize(args[2])
	return err
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	size, err := parseBatchSize(args[2])
	if err != nil {
		return err
	}
	opts := pipeline.Options{InputPath: args[0], OutputPath: args[1], BatchSize: size}
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg := appconfig.Defaults()
	if c := GetConfig(); c != nil {
		cfg = *c
	}
	cfg.BatchSize = size
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.With().Str("annotator", cfg.Annotator).Str("device", cfg.Device).Logger()

	// Baseline before the annotator exists so ModelLoad captures its cost.
	tracker := resource.NewTracker(cfg.SampleEvery(), log, newSamplers(cfg)...)
	tracker.Baseline()

	ann, err := newAnnotator(cfg, log)
	if err != nil {
		return fmt.Errorf("load annotator: %w", err)
	}
	defer func() {
		if cerr := ann.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing annotator")
		}
	}()
	tracker.ModelLoaded()

	started := time.Now()
	summary, runErr := pipeline.Run(cmd.Context(), opts, ann, tracker, log)
	report := tracker.Finish()
	if runErr != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "annotation failed after %d paragraphs: %v\n", summary.Paragraphs, runErr)
		return runErr
	}

	result := benchmark.Result{
		RunID:      benchmark.NewRunID(),
		Annotator:  ann.Name(),
		Device:     strings.ToLower(cfg.Device),
		InputPath:  opts.InputPath,
		OutputPath: opts.OutputPath,
		BatchSize:  size,
		StartedAt:  started.UTC(),
		Paragraphs: summary.Paragraphs,
		Batches:    summary.Batches,
		Entities:   summary.Entities,
		Elapsed:    summary.Elapsed,
		Memory:     report,
	}
	result.Summarize(summary.BatchDurations, ann.Durations())
	benchmark.LogResult(log, result)

	path, err := benchmark.WriteResult(cfg.ResultsDir, result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	benchmark.WriteSummary(out, result, path)
	color.New(color.FgGreen).Fprintf(out, "Wrote %d entities to %s\n", summary.Entities, opts.OutputPath)
	return nil
}
