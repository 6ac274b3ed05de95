// internal/pipeline/pipeline.go

// Package pipeline drives paragraph-batched annotation: it reads paragraphs
// from a text file, hands them to an annotator one batch at a time, and
// writes every returned entity as a TSV row.
//
// Runs are synchronous and single-pass. A failing annotator call stops the
// run; rows for batches completed before the failure stay on disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/UCREL/HEC/internal/annotate"
	"github.com/UCREL/HEC/internal/batch"
	"github.com/UCREL/HEC/internal/paragraph"
	"github.com/UCREL/HEC/internal/resource"
	"github.com/UCREL/HEC/internal/tsv"
	"github.com/UCREL/HEC/internal/util"
)

// ErrDocumentCount is returned when an annotator does not return exactly one
// document per paragraph.
var ErrDocumentCount = errors.New("annotator returned wrong number of documents")

// Options configures a run.
type Options struct {
	InputPath  string
	OutputPath string
	BatchSize  int
}

// Validate checks options without touching the filesystem.
func (o Options) Validate() error {
	if err := batch.Validate(o.BatchSize); err != nil {
		return err
	}
	if strings.TrimSpace(o.InputPath) == "" {
		return fmt.Errorf("%w: input path is required", batch.ErrInvalidConfiguration)
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", batch.ErrInvalidConfiguration)
	}
	return nil
}

// Summary describes a completed (or aborted) run.
type Summary struct {
	Paragraphs int
	Batches    int
	Entities   int
	Elapsed    time.Duration
	// BatchDurations holds the time spent annotating and writing each batch.
	BatchDurations []time.Duration
}

// Run executes the pipeline. The tracker may be nil.
func Run(ctx context.Context, opts Options, ann annotate.Annotator, tracker *resource.Tracker, log zerolog.Logger) (summary Summary, err error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	if ann == nil {
		return Summary{}, fmt.Errorf("%w: annotator is required", batch.ErrInvalidConfiguration)
	}

	scanner, input, err := paragraph.Open(opts.InputPath)
	if err != nil {
		return Summary{}, err
	}
	defer input.Close()

	batches, err := batch.New(scanner, opts.BatchSize)
	if err != nil {
		return Summary{}, err
	}

	output, err := os.Create(opts.OutputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("create output file %q: %w", opts.OutputPath, err)
	}
	defer func() {
		if cerr := output.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file %q: %w", opts.OutputPath, cerr)
		}
	}()

	log.Info().
		Str("input", opts.InputPath).
		Str("output", opts.OutputPath).
		Int("batchSize", batches.Size()).
		Int("sampleEvery", tracker.Interval()).
		Str("annotator", ann.Name()).
		Msg("pipeline started")

	d := &driver{
		ann:     ann,
		writer:  tsv.NewWriter(output),
		tracker: tracker,
		log:     log,
	}

	start := time.Now()
	defer func() { summary.Elapsed = time.Since(start) }()

	for batches.Next() {
		if err := ctx.Err(); err != nil {
			return d.summary, err
		}
		if err := d.process(ctx, batches.Batch()); err != nil {
			return d.summary, err
		}
	}
	if err := batches.Err(); err != nil {
		return d.summary, fmt.Errorf("read paragraphs from %q: %w", opts.InputPath, err)
	}

	log.Info().
		Int("paragraphs", d.summary.Paragraphs).
		Int("batches", d.summary.Batches).
		Int("entities", d.summary.Entities).
		Msg("pipeline finished")
	return d.summary, nil
}

type driver struct {
	ann     annotate.Annotator
	writer  *tsv.Writer
	tracker *resource.Tracker
	log     zerolog.Logger
	summary Summary
}

// process annotates one batch and writes its rows. Paragraph numbers come
// from the running count, never from the position within the batch.
func (d *driver) process(ctx context.Context, b batch.Batch) error {
	index := d.summary.Batches
	start := time.Now()

	docs, err := d.ann.Annotate(ctx, b.Texts())
	if err != nil {
		return fmt.Errorf("annotate batch %d (paragraph %d): %w", index, d.summary.Paragraphs, err)
	}
	if len(docs) != len(b) {
		return fmt.Errorf("%w: batch %d sent %d paragraphs, got %d documents", ErrDocumentCount, index, len(b), len(docs))
	}

	for i, doc := range docs {
		number := d.summary.Paragraphs
		for _, e := range doc.Entities {
			rec := tsv.Record{Paragraph: number, Text: e.Text, Label: e.Label, Start: e.Start, End: e.End}
			if err := d.writer.Write(rec); err != nil {
				return fmt.Errorf("write entity for paragraph %d: %w", number, err)
			}
		}
		if d.log.GetLevel() <= zerolog.TraceLevel {
			d.log.Trace().Int("paragraph", number).Int("entities", len(doc.Entities)).
				Str("text", util.Preview(b[i].Text, 60)).Msg("paragraph annotated")
		}
		d.summary.Paragraphs++
		d.tracker.Observe(d.summary.Paragraphs)
	}

	if err := d.writer.Flush(); err != nil {
		return fmt.Errorf("flush batch %d: %w", index, err)
	}
	d.summary.Entities = d.writer.Rows()

	took := time.Since(start)
	d.summary.Batches++
	d.summary.BatchDurations = append(d.summary.BatchDurations, took)
	d.log.Debug().Int("batch", index).Int("size", len(b)).Dur("took", took).Msg("batch written")
	return nil
}
