// internal/resource/sampler.go

// Package resource observes memory use while the pipeline runs. Samplers
// read a single memory figure (process RSS, GPU device memory); a Tracker
// combines them into baseline, periodic and end-of-run readings. None of
// this affects pipeline output.
package resource

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"
)

// Reading is one memory measurement in bytes.
type Reading struct {
	Used uint64
	// Total is the capacity of the measured device, 0 when unknown.
	Total uint64
	// HighWater is the peak the source itself has recorded, 0 when unknown.
	HighWater uint64
}

// Sampler takes memory readings from one source.
type Sampler interface {
	Name() string
	Sample() (Reading, error)
}

// ProcessSampler reads resident memory of the current process from procfs.
type ProcessSampler struct {
	proc func() (procfs.Proc, error)
}

// NewProcessSampler returns a sampler for the running process.
func NewProcessSampler() *ProcessSampler {
	return &ProcessSampler{proc: procfs.Self}
}

// Name implements Sampler.
func (s *ProcessSampler) Name() string { return "ram" }

// Sample implements Sampler.
func (s *ProcessSampler) Sample() (Reading, error) {
	p, err := s.proc()
	if err != nil {
		return Reading{}, fmt.Errorf("procfs self: %w", err)
	}
	status, err := p.NewStatus()
	if err != nil {
		return Reading{}, fmt.Errorf("procfs status: %w", err)
	}
	return Reading{Used: status.VmRSS, HighWater: status.VmHWM}, nil
}

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// GPUSampler reads device memory of one NVIDIA GPU through nvidia-smi.
type GPUSampler struct {
	Index   int
	Timeout time.Duration
	run     CommandRunner
}

// NewGPUSampler returns a sampler for the GPU at index. A nil runner uses
// os/exec.
func NewGPUSampler(index int, run CommandRunner) *GPUSampler {
	if run == nil {
		run = execRunner
	}
	return &GPUSampler{Index: index, Timeout: 10 * time.Second, run: run}
}

// Name implements Sampler.
func (s *GPUSampler) Name() string { return "gpu" + strconv.Itoa(s.Index) }

// Sample implements Sampler.
func (s *GPUSampler) Sample() (Reading, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	out, err := s.run(ctx, "nvidia-smi",
		"--query-gpu=memory.used,memory.total",
		"--format=csv,noheader,nounits",
		"-i", strconv.Itoa(s.Index))
	if err != nil {
		return Reading{}, err
	}
	return parseNvidiaSMI(out)
}

// parseNvidiaSMI parses "used, total" in MiB from the first output line.
func parseNvidiaSMI(out []byte) (Reading, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	used, total, ok := strings.Cut(line, ",")
	if !ok {
		return Reading{}, fmt.Errorf("nvidia-smi: unexpected output %q", line)
	}
	usedMiB, err := strconv.ParseUint(strings.TrimSpace(used), 10, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("nvidia-smi: parse used memory: %w", err)
	}
	totalMiB, err := strconv.ParseUint(strings.TrimSpace(total), 10, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("nvidia-smi: parse total memory: %w", err)
	}
	const mib = 1 << 20
	return Reading{Used: usedMiB * mib, Total: totalMiB * mib}, nil
}
