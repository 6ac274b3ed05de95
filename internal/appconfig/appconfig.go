// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file,
	// read through viper by the command tree.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultSampleInterval is the number of paragraphs between memory samples.
	defaultSampleInterval = 50
	// defaultFetchConcurrency bounds parallel downloads.
	defaultFetchConcurrency = 4
)

// Devices accepted by the annotate command.
const (
	DeviceCPU = "cpu"
	DeviceGPU = "gpu"
)

// Annotator backends.
const (
	AnnotatorGazetteer = "gazetteer"
	AnnotatorRemote    = "remote"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the top-level application configuration. Keys match the
// flag names so that viper can merge flags, file and defaults.
type Config struct {
	BatchSize        int    `json:"batchSize" mapstructure:"batchSize"`
	Device           string `json:"device" mapstructure:"device"`
	GPUIndex         int    `json:"gpuIndex" mapstructure:"gpuIndex"`
	Annotator        string `json:"annotator" mapstructure:"annotator"`
	GazetteerPath    string `json:"gazetteer,omitempty" mapstructure:"gazetteer"`
	CaseFold         bool   `json:"caseFold" mapstructure:"caseFold"`
	Endpoint         string `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Model            string `json:"model,omitempty" mapstructure:"model"`
	TimeoutSeconds   int    `json:"timeout,omitempty" mapstructure:"timeout"`
	SampleInterval   int    `json:"sampleInterval,omitempty" mapstructure:"sampleInterval"`
	ResultsDir       string `json:"resultsDir,omitempty" mapstructure:"resultsDir"`
	DatasetBaseURL   string `json:"datasetBaseURL,omitempty" mapstructure:"datasetBaseURL"`
	ModelBaseURL     string `json:"modelBaseURL,omitempty" mapstructure:"modelBaseURL"`
	FetchConcurrency int    `json:"fetchConcurrency,omitempty" mapstructure:"fetchConcurrency"`
	LogFile          string `json:"logFile,omitempty" mapstructure:"logFile"`
	LogLevel         string `json:"logLevel,omitempty" mapstructure:"logLevel"`
	Debug            bool   `json:"debug" mapstructure:"debug"`
	ConfigPath       string `json:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when neither a file nor a flag
// sets a value.
func Defaults() Config {
	return Config{
		BatchSize:        1,
		Device:           DeviceCPU,
		Annotator:        AnnotatorGazetteer,
		TimeoutSeconds:   int(defaultRequestTimeout.Seconds()),
		SampleInterval:   defaultSampleInterval,
		ResultsDir:       filepath.Join("hecData", "benchmarks"),
		FetchConcurrency: defaultFetchConcurrency,
		LogLevel:         "info",
	}
}

// Validate checks the settings that the annotate command depends on.
func (c Config) Validate() error {
	var problems []string
	if c.BatchSize < 1 {
		problems = append(problems, fmt.Sprintf("batchSize must be at least 1, got %d", c.BatchSize))
	}
	switch strings.ToLower(c.Device) {
	case DeviceCPU, DeviceGPU:
	default:
		problems = append(problems, fmt.Sprintf("device must be %q or %q, got %q", DeviceCPU, DeviceGPU, c.Device))
	}
	if c.GPUIndex < 0 {
		problems = append(problems, fmt.Sprintf("gpuIndex must not be negative, got %d", c.GPUIndex))
	}
	switch strings.ToLower(c.Annotator) {
	case AnnotatorGazetteer:
		if strings.TrimSpace(c.GazetteerPath) == "" {
			problems = append(problems, "gazetteer annotator requires a gazetteer file")
		}
	case AnnotatorRemote:
		if strings.TrimSpace(c.Endpoint) == "" {
			problems = append(problems, "remote annotator requires an endpoint")
		}
	default:
		problems = append(problems, fmt.Sprintf("annotator must be %q or %q, got %q", AnnotatorGazetteer, AnnotatorRemote, c.Annotator))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// UseGPU reports whether the annotate command should run on, and sample, a GPU.
func (c Config) UseGPU() bool {
	return strings.EqualFold(c.Device, DeviceGPU)
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SampleEvery returns the memory sampling interval in paragraphs.
func (c Config) SampleEvery() int {
	if c.SampleInterval <= 0 {
		return defaultSampleInterval
	}
	return c.SampleInterval
}

// FetchWorkers returns the number of parallel downloads.
func (c Config) FetchWorkers() int {
	if c.FetchConcurrency <= 0 {
		return defaultFetchConcurrency
	}
	return c.FetchConcurrency
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "hec.log"
}
