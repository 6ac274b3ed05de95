// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.BatchSize != 1 || cfg.UseGPU() || cfg.Annotator != AnnotatorGazetteer {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SampleInterval != 50 {
		t.Fatalf("expected default sample interval, got %d", cfg.SampleInterval)
	}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default request timeout of 120s, got %v", cfg.RequestTimeout())
	}
	if cfg.ResultsDir != filepath.Join("hecData", "benchmarks") {
		t.Fatalf("unexpected results dir %s", cfg.ResultsDir)
	}

	cfg.Device = "GPU"
	if !cfg.UseGPU() {
		t.Fatal("device should match case-insensitively")
	}
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.GazetteerPath = "entities.tsv"
	if err := valid.Validate(); err != nil {
		t.Fatalf("defaults plus gazetteer should validate: %v", err)
	}

	cases := map[string]func(c *Config){
		"batchSize": func(c *Config) { c.BatchSize = 0 },
		"device":    func(c *Config) { c.Device = "tpu" },
		"gpuIndex":  func(c *Config) { c.GPUIndex = -1 },
		"gazetteer": func(c *Config) { c.GazetteerPath = "" },
		"annotator": func(c *Config) { c.Annotator = "stanza" },
		"endpoint":  func(c *Config) { c.Annotator = AnnotatorRemote },
	}
	for want, mutate := range cases {
		cfg := valid
		mutate(&cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", want, err)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: error should mention the field, got %v", want, err)
		}
	}
}

func TestAccessorFallbacks(t *testing.T) {
	var cfg Config
	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.RequestTimeout())
	}
	if cfg.SampleEvery() != 50 {
		t.Fatalf("unexpected sample interval %d", cfg.SampleEvery())
	}
	if cfg.FetchWorkers() != 4 {
		t.Fatalf("unexpected fetch workers %d", cfg.FetchWorkers())
	}
	if cfg.LogFilePath() != "hec.log" {
		t.Fatalf("unexpected log path %s", cfg.LogFilePath())
	}

	cfg.TimeoutSeconds = 5
	cfg.SampleInterval = 7
	if cfg.RequestTimeout() != 5*time.Second || cfg.SampleEvery() != 7 {
		t.Fatalf("explicit values ignored: %+v", cfg)
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", Defaults())
	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected defaults notice, got: %s", out)
	}
	if !strings.Contains(out, "BatchSize") {
		t.Fatalf("expected struct dump, got: %s", out)
	}
	if !strings.Contains(out, "annotate would reject") {
		t.Fatalf("expected validation note for missing gazetteer, got: %s", out)
	}

	buf.Reset()
	cfg := Defaults()
	cfg.GazetteerPath = "g.tsv"
	ShowConfig(&buf, "config/config.json", cfg)
	if !strings.Contains(buf.String(), "Config file: config/config.json") {
		t.Fatalf("expected file line, got: %s", buf.String())
	}
	if strings.Contains(buf.String(), "annotate would reject") {
		t.Fatalf("unexpected validation note: %s", buf.String())
	}
}
