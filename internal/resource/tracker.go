// internal/resource/tracker.go
package resource

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// DefaultInterval is the number of paragraphs between periodic samples.
const DefaultInterval = 50

// Usage summarises one sampler over a run. Deltas are signed byte counts
// relative to the baseline taken before the annotator was loaded.
type Usage struct {
	Sampler  string `json:"sampler"`
	Baseline uint64 `json:"baseline"`
	Total    uint64 `json:"total,omitempty"`
	// ModelLoad is the after-load reading minus the baseline.
	ModelLoad int64 `json:"modelLoad"`
	// End is the end-of-run reading minus the baseline.
	End int64 `json:"end"`
	// EndStale is set when the end-of-run sample failed and End was taken
	// from the last successful reading instead.
	EndStale bool `json:"endStale,omitempty"`
	// PeakProcessing is the largest reading taken while or after processing
	// (periodic samples and the end sample) minus the after-load reading. It
	// is negative when memory only shrank after the annotator loaded, and
	// zero when no such reading exists.
	PeakProcessing int64 `json:"peakProcessing"`
	// Peak is the largest of all readings minus the baseline.
	Peak      int64  `json:"peak"`
	HighWater uint64 `json:"highWater,omitempty"`
	Samples   int    `json:"samples"`
}

// Report is the result of a tracked run.
type Report struct {
	Usage  []Usage `json:"usage"`
	Errors int     `json:"sampleErrors,omitempty"`
}

type series struct {
	sampler   Sampler
	baseline  Reading
	afterLoad Reading
	maxUsed   uint64
	maxProc   uint64
	hasProc   bool
	last      Reading
	samples   int
	ok        bool
}

// Tracker collects readings from a set of samplers. A nil *Tracker is valid
// and records nothing, so callers never need to guard their calls.
type Tracker struct {
	interval int
	series   []*series
	errors   int
	log      zerolog.Logger
}

// NewTracker returns a Tracker that samples every interval paragraphs.
// A non-positive interval selects DefaultInterval.
func NewTracker(interval int, log zerolog.Logger, samplers ...Sampler) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Tracker{interval: interval, log: log}
	for _, s := range samplers {
		if s != nil {
			t.series = append(t.series, &series{sampler: s})
		}
	}
	return t
}

// Interval returns the sampling interval in paragraphs.
func (t *Tracker) Interval() int {
	if t == nil {
		return 0
	}
	return t.interval
}

// Baseline records the starting reading of every sampler. It must be called
// before the annotator is constructed.
func (t *Tracker) Baseline() {
	if t == nil {
		return
	}
	for _, s := range t.series {
		r, err := s.sampler.Sample()
		if err != nil {
			t.fail(s, err)
			continue
		}
		s.baseline, s.afterLoad, s.last = r, r, r
		s.maxUsed = r.Used
		s.ok = true
		t.log.Debug().Str("sampler", s.sampler.Name()).Str("used", humanize.IBytes(r.Used)).Msg("baseline memory")
	}
}

// ModelLoaded records the reading taken once the annotator is ready.
func (t *Tracker) ModelLoaded() {
	if t == nil {
		return
	}
	for _, s := range t.series {
		if !s.ok {
			continue
		}
		r, err := s.sampler.Sample()
		if err != nil {
			t.fail(s, err)
			continue
		}
		s.afterLoad = r
		s.observe(r)
	}
}

// Observe is called with the running paragraph count after each paragraph.
// It samples when the count is a multiple of the interval.
func (t *Tracker) Observe(paragraphs int) {
	if t == nil || paragraphs <= 0 || paragraphs%t.interval != 0 {
		return
	}
	for _, s := range t.series {
		if !s.ok {
			continue
		}
		r, err := s.sampler.Sample()
		if err != nil {
			t.fail(s, err)
			continue
		}
		s.samples++
		s.observe(r)
		s.processing(r)
	}
}

// Finish takes the end-of-run reading and returns the report.
func (t *Tracker) Finish() Report {
	if t == nil {
		return Report{}
	}
	report := Report{}
	for _, s := range t.series {
		if !s.ok {
			continue
		}
		stale := false
		if r, err := s.sampler.Sample(); err != nil {
			t.fail(s, err)
			stale = true
			t.log.Warn().Str("sampler", s.sampler.Name()).Msg("end usage taken from the last successful sample")
		} else {
			s.observe(r)
			s.processing(r)
		}

		var peakProc int64
		if s.hasProc {
			peakProc = delta(s.maxProc, s.afterLoad.Used)
		}
		u := Usage{
			Sampler:        s.sampler.Name(),
			Baseline:       s.baseline.Used,
			Total:          s.last.Total,
			ModelLoad:      delta(s.afterLoad.Used, s.baseline.Used),
			End:            delta(s.last.Used, s.baseline.Used),
			EndStale:       stale,
			PeakProcessing: peakProc,
			Peak:           delta(s.maxUsed, s.baseline.Used),
			HighWater:      s.last.HighWater,
			Samples:        s.samples,
		}
		report.Usage = append(report.Usage, u)
	}
	report.Errors = t.errors
	return report
}

func (t *Tracker) fail(s *series, err error) {
	t.errors++
	t.log.Warn().Err(err).Str("sampler", s.sampler.Name()).Msg("memory sample failed")
}

func (s *series) observe(r Reading) {
	s.last = r
	if r.Used > s.maxUsed {
		s.maxUsed = r.Used
	}
}

func (s *series) processing(r Reading) {
	if !s.hasProc || r.Used > s.maxProc {
		s.maxProc = r.Used
		s.hasProc = true
	}
}

func delta(a, b uint64) int64 {
	if a >= b {
		return int64(a - b)
	}
	return -int64(b - a)
}

// FormatDelta renders a signed byte count with IEC units.
func FormatDelta(d int64) string {
	if d < 0 {
		return "-" + humanize.IBytes(uint64(-d))
	}
	return humanize.IBytes(uint64(d))
}

// String renders the usage as a single log-friendly line.
func (u Usage) String() string {
	s := fmt.Sprintf("%s baseline=%s model=%s peak=%s peak-processing=%s end=%s samples=%d",
		u.Sampler, humanize.IBytes(u.Baseline), FormatDelta(u.ModelLoad), FormatDelta(u.Peak),
		FormatDelta(u.PeakProcessing), FormatDelta(u.End), u.Samples)
	if u.Total > 0 {
		s += " total=" + humanize.IBytes(u.Total)
	}
	if u.HighWater > 0 {
		s += " high-water=" + humanize.IBytes(u.HighWater)
	}
	return s
}
