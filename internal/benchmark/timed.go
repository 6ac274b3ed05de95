// internal/benchmark/timed.go
package benchmark

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/UCREL/HEC/internal/annotate"
)

// TimedAnnotator is a decorator that wraps an Annotator and records the
// wall-clock duration of every Annotate call.
type TimedAnnotator struct {
	wrapped   annotate.Annotator
	durations []time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewTimedAnnotator wraps an existing annotator.
func NewTimedAnnotator(wrapped annotate.Annotator, log zerolog.Logger) *TimedAnnotator {
	return &TimedAnnotator{wrapped: wrapped, log: log, now: time.Now}
}

// Name passes the call through to the wrapped annotator.
func (t *TimedAnnotator) Name() string { return t.wrapped.Name() }

// Annotate times the call to the wrapped annotator. Failed calls are not
// recorded.
func (t *TimedAnnotator) Annotate(ctx context.Context, texts []string) ([]annotate.Document, error) {
	start := t.now()
	docs, err := t.wrapped.Annotate(ctx, texts)
	if err != nil {
		return nil, err
	}
	d := t.now().Sub(start)
	t.durations = append(t.durations, d)
	t.log.Debug().Int("batch", len(t.durations)-1).Int("paragraphs", len(texts)).Dur("took", d).Msg("batch annotated")
	return docs, nil
}

// Close passes the call through to the wrapped annotator.
func (t *TimedAnnotator) Close() error { return t.wrapped.Close() }

// Durations returns the recorded per-call durations in call order.
func (t *TimedAnnotator) Durations() []time.Duration {
	return append([]time.Duration(nil), t.durations...)
}

// Unwrap returns the decorated annotator.
func (t *TimedAnnotator) Unwrap() annotate.Annotator { return t.wrapped }
