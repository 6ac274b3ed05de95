// internal/annotatorfactory/factory.go
package annotatorfactory

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/UCREL/HEC/internal/annotate"
	"github.com/UCREL/HEC/internal/annotate/gazetteer"
	"github.com/UCREL/HEC/internal/annotate/remote"
	"github.com/UCREL/HEC/internal/appconfig"
	"github.com/UCREL/HEC/internal/benchmark"
	"github.com/UCREL/HEC/internal/resource"
)

// New selects and configures the annotator named by the configuration and
// wraps it so that every call is timed.
func New(cfg appconfig.Config, log zerolog.Logger) (*benchmark.TimedAnnotator, error) {
	var ann annotate.Annotator
	var err error

	switch strings.ToLower(cfg.Annotator) {
	case appconfig.AnnotatorGazetteer:
		var opts []gazetteer.Option
		if cfg.CaseFold {
			opts = append(opts, gazetteer.WithCaseFolding())
		}
		g, gerr := gazetteer.Load(cfg.GazetteerPath, opts...)
		if gerr != nil {
			return nil, gerr
		}
		log.Info().Str("file", cfg.GazetteerPath).Int("entries", g.Len()).Msg("gazetteer loaded")
		ann = g
	case appconfig.AnnotatorRemote:
		ann, err = remote.New(remote.Options{
			Endpoint: cfg.Endpoint,
			Model:    cfg.Model,
			Device:   strings.ToLower(cfg.Device),
			Timeout:  cfg.RequestTimeout(),
			Logger:   log,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("endpoint", cfg.Endpoint).Str("model", cfg.Model).Msg("remote annotator ready")
	default:
		return nil, fmt.Errorf("%w: unsupported annotator %q", appconfig.ErrInvalidConfig, cfg.Annotator)
	}

	return benchmark.NewTimedAnnotator(ann, log), nil
}

// Samplers returns the memory samplers for the configured device: process
// RAM always, plus the selected GPU when running on one.
func Samplers(cfg appconfig.Config) []resource.Sampler {
	samplers := []resource.Sampler{resource.NewProcessSampler()}
	if cfg.UseGPU() {
		samplers = append(samplers, resource.NewGPUSampler(cfg.GPUIndex, nil))
	}
	return samplers
}
