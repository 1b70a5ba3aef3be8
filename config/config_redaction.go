package config

import (
	"github.com/adrianliechti/redactor/pkg/raster/poppler"
	"github.com/adrianliechti/redactor/pkg/redactor"
)

type redactionConfig struct {
	Binary string `yaml:"binary"`

	Scale float64 `yaml:"scale"`
	Sigma float64 `yaml:"sigma"`
}

func (cfg *Config) registerRedaction(f *configFile) error {
	var options []poppler.Option

	if f.Redaction.Binary != "" {
		options = append(options, poppler.WithBinary(f.Redaction.Binary))
	}

	rasterizer, err := poppler.New(options...)

	if err != nil {
		return err
	}

	var engine []redactor.EngineOption

	if f.Redaction.Sigma > 0 {
		engine = append(engine, redactor.WithSigma(f.Redaction.Sigma))
	}

	cfg.rasterizer = rasterizer

	cfg.redactor = redactor.New(rasterizer,
		redactor.WithScale(f.Redaction.Scale),
		redactor.WithEngine(redactor.NewEngine(engine...)),
	)

	return nil
}
