// internal/benchmark/types.go
package benchmark

import (
	"time"

	"github.com/UCREL/HEC/internal/resource"
)

// Stats summarises a set of batch durations.
type Stats struct {
	Count  int           `json:"count"`
	Total  time.Duration `json:"total"`
	Min    time.Duration `json:"min"`
	Median time.Duration `json:"median"`
	Mean   time.Duration `json:"mean"`
	Max    time.Duration `json:"max"`
}

// Result is the record written for one annotation run.
type Result struct {
	RunID      string    `json:"runId"`
	Annotator  string    `json:"annotator"`
	Device     string    `json:"device"`
	InputPath  string    `json:"input"`
	OutputPath string    `json:"output"`
	BatchSize  int       `json:"batchSize"`
	StartedAt  time.Time `json:"startedAt"`

	Paragraphs int           `json:"paragraphs"`
	Batches    int           `json:"batches"`
	Entities   int           `json:"entities"`
	Elapsed    time.Duration `json:"elapsed"`
	// MeanBatch is elapsed time per paragraph scaled to a full batch.
	MeanBatch time.Duration `json:"meanBatch"`
	// MedianPerSample is the median batch time divided by the batch size.
	MedianPerSample time.Duration `json:"medianPerSample"`
	// BatchStats covers annotating and writing each batch.
	BatchStats Stats `json:"batchStats"`
	// AnnotateStats covers only the annotator calls.
	AnnotateStats Stats `json:"annotateStats"`

	Memory resource.Report `json:"memory"`
}
