package config

import (
	"errors"

	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/pipeline"
	"github.com/adrianliechti/redactor/pkg/semantic"
)

// Pipeline assembles the configured components around a job registry.
func (cfg *Config) Pipeline(registry jobs.Registry) (*pipeline.Pipeline, error) {
	if cfg.redactor == nil {
		return nil, errors.New("redaction not configured")
	}

	layout, err := cfg.Layout("")

	if err != nil {
		return nil, err
	}

	var options []semantic.Option

	if cfg.window > 0 {
		options = append(options, semantic.WithWindow(cfg.window))
	}

	return pipeline.New(registry, layout, cfg.redactor,
		pipeline.WithDetector(cfg.detector),
		pipeline.WithResolver(cfg.resolver),
		pipeline.WithValidator(cfg.validator),
		pipeline.WithRegion(cfg.region),
		pipeline.WithDecider(semantic.NewDecider(cfg.filter, options...)),
	)
}
