// internal/benchmark/benchmark.go
package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultResultsDir is where run results are written unless configured.
var DefaultResultsDir = filepath.Join("hecData", "benchmarks")

// Aggregate calculates min, median, mean, max and total of durations.
func Aggregate(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Count:  n,
		Total:  total,
		Min:    sorted[0],
		Median: median,
		Mean:   total / time.Duration(n),
		Max:    sorted[n-1],
	}
}

// MeanBatch returns elapsed time per paragraph multiplied by batchSize.
func MeanBatch(elapsed time.Duration, paragraphs, batchSize int) time.Duration {
	if paragraphs <= 0 {
		return 0
	}
	return time.Duration(float64(elapsed) / float64(paragraphs) * float64(batchSize))
}

// PerSample returns the median batch duration divided by batchSize.
func PerSample(stats Stats, batchSize int) time.Duration {
	if batchSize <= 0 {
		return 0
	}
	return stats.Median / time.Duration(batchSize)
}

// Summarize fills the derived timing fields of r from the per-batch
// durations of the pipeline and the per-call durations of the annotator.
// Paragraphs, Elapsed and BatchSize must already be set.
func (r *Result) Summarize(batches, calls []time.Duration) {
	r.BatchStats = Aggregate(batches)
	r.AnnotateStats = Aggregate(calls)
	r.MeanBatch = MeanBatch(r.Elapsed, r.Paragraphs, r.BatchSize)
	r.MedianPerSample = PerSample(r.BatchStats, r.BatchSize)
}

// NewRunID returns a lexically sortable identifier for a run.
func NewRunID() string {
	return ulid.Make().String()
}

// WriteResult writes result as indented JSON into dir and returns the path.
func WriteResult(dir string, result Result) (string, error) {
	if dir == "" {
		dir = DefaultResultsDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	if result.RunID == "" {
		result.RunID = NewRunID()
	}

	name := fmt.Sprintf("%s-%d-%s.json", Slugify(result.Annotator), result.BatchSize, strings.ToLower(result.RunID))
	fileName := filepath.Join(dir, name)

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	if err := encodeAndClose(file, result); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("error writing results to file: %w", err)
	}
	return fileName, nil
}

// encodeAndClose writes v as indented JSON and closes w. A close error is
// reported since it can mean the data never reached the disk.
func encodeAndClose(w io.WriteCloser, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9_]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a string into a "slug" format,
// including replacing colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}
