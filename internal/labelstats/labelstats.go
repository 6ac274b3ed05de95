// internal/labelstats/labelstats.go

// Package labelstats tallies label frequencies over GoEmotions-style TSV
// splits. Each row holds the text, a comma separated list of label indices
// and a row id.
package labelstats

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoLabels is returned for a row without any label index.
	ErrNoLabels = errors.New("row has no labels")
	// ErrUnknownLabel is returned for a label index outside the label list.
	ErrUnknownLabel = errors.New("unknown label index")
	// ErrMissingLabels is returned by ExpectAll when a label never occurs.
	ErrMissingLabels = errors.New("not all labels occur")
)

// Label holds the statistics for one label.
type Label struct {
	Name  string
	Count int
	// Multi counts the texts where this label appears alongside another.
	Multi int
}

// Report holds per-label statistics in label-file order.
type Report struct {
	Split  string
	Labels []Label
	Texts  int
}

// TextPercent is the share of texts that carry the label.
func (l Label) TextPercent(texts int) float64 {
	if texts == 0 {
		return 0
	}
	return float64(l.Count) / float64(texts) * 100
}

// MultiPercent is the share of the label's occurrences that co-occur with
// another label.
func (l Label) MultiPercent() float64 {
	if l.Count == 0 {
		return 0
	}
	return float64(l.Multi) / float64(l.Count) * 100
}

type options struct {
	expectAll bool
	split     string
}

// Option configures Compute.
type Option func(*options)

// ExpectAll makes Compute fail when any label has a zero count.
func ExpectAll() Option {
	return func(o *options) { o.expectAll = true }
}

// WithSplit names the split in the report.
func WithSplit(name string) Option {
	return func(o *options) { o.split = name }
}

// LoadLabels reads one label name per line; the line number is the index.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file %q: %w", path, err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		labels = append(labels, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read label file %q: %w", path, err)
	}
	// A trailing newline produces no extra entry, but a trailing blank line does.
	for len(labels) > 0 && labels[len(labels)-1] == "" {
		labels = labels[:len(labels)-1]
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("label file %q is empty", path)
	}
	return labels, nil
}

// Compute tallies labels over the TSV rows read from r.
func Compute(r io.Reader, labels []string, opts ...Option) (Report, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	report := Report{Split: o.split, Labels: make([]Label, len(labels))}
	for i, name := range labels {
		report.Labels[i].Name = name
	}

	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		if len(rec) < 2 || strings.TrimSpace(rec[1]) == "" {
			return Report{}, fmt.Errorf("%w: row %d", ErrNoLabels, row)
		}

		ids, err := parseIDs(rec[1], len(labels))
		if err != nil {
			return Report{}, fmt.Errorf("row %d: %w", row, err)
		}
		for _, id := range ids {
			report.Labels[id].Count++
			if len(ids) > 1 {
				report.Labels[id].Multi++
			}
		}
		report.Texts++
	}

	if o.expectAll {
		var missing []string
		for _, l := range report.Labels {
			if l.Count == 0 {
				missing = append(missing, l.Name)
			}
		}
		if len(missing) > 0 {
			return report, fmt.Errorf("%w: %s", ErrMissingLabels, strings.Join(missing, ", "))
		}
	}
	return report, nil
}

// ComputeFile opens path and calls Compute.
func ComputeFile(path string, labels []string, opts ...Option) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open split %q: %w", path, err)
	}
	defer f.Close()
	report, err := Compute(f, labels, opts...)
	if err != nil {
		return report, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

func parseIDs(field string, n int) ([]int, error) {
	parts := strings.Split(field, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("label index %q: %w", p, err)
		}
		if id < 0 || id >= n {
			return nil, fmt.Errorf("%w: %d (have %d labels)", ErrUnknownLabel, id, n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
