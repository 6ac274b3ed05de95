// internal/benchmark/report.go
package benchmark

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/UCREL/HEC/internal/resource"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
)

// LogResult writes the timing and memory figures of a run to log.
func LogResult(log zerolog.Logger, r Result) {
	log.Info().
		Int("paragraphs", r.Paragraphs).
		Int("batches", r.Batches).
		Int("entities", r.Entities).
		Dur("elapsed", r.Elapsed).
		Msg("annotation finished")
	log.Info().Str("took", formatSeconds(r.MeanBatch)).Int("batchSize", r.BatchSize).Msg("mean time per batch")
	log.Info().
		Str("min", formatSeconds(r.BatchStats.Min)).
		Str("median", formatSeconds(r.BatchStats.Median)).
		Str("max", formatSeconds(r.BatchStats.Max)).
		Msg("batch times")
	log.Info().Str("took", formatSeconds(r.MedianPerSample)).Msg("median time per paragraph")
	if r.AnnotateStats.Count > 0 {
		log.Debug().
			Str("median", formatSeconds(r.AnnotateStats.Median)).
			Str("total", formatSeconds(r.AnnotateStats.Total)).
			Msg("annotator call times")
	}
	for _, u := range r.Memory.Usage {
		log.Info().
			Str("sampler", u.Sampler).
			Str("model", resource.FormatDelta(u.ModelLoad)).
			Str("peakProcessing", resource.FormatDelta(u.PeakProcessing)).
			Str("peak", resource.FormatDelta(u.Peak)).
			Str("end", resource.FormatDelta(u.End)).
			Int("samples", u.Samples).
			Msg("memory usage")
	}
	if r.Memory.Errors > 0 {
		log.Warn().Int("errors", r.Memory.Errors).Msg("some memory samples failed")
	}
}

// WriteSummary prints a short human-readable summary of a run.
func WriteSummary(w io.Writer, r Result, resultPath string) {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s on %s, batch size %d", r.Annotator, r.Device, r.BatchSize)))
	b.WriteString("\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Paragraphs", humanize.Comma(int64(r.Paragraphs)))
	row("Entities", humanize.Comma(int64(r.Entities)))
	row("Elapsed", formatSeconds(r.Elapsed))
	row("Mean batch", formatSeconds(r.MeanBatch))
	row("Median per paragraph", formatSeconds(r.MedianPerSample))
	for _, u := range r.Memory.Usage {
		row("Memory "+u.Sampler, fmt.Sprintf("model %s, peak %s", resource.FormatDelta(u.ModelLoad), resource.FormatDelta(u.Peak)))
	}
	if resultPath != "" {
		row("Result", resultPath)
	}
	fmt.Fprint(w, b.String())
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.4fs", d.Seconds())
}
