package config

import (
	"time"

	"github.com/adrianliechti/redactor/pkg/detector"
	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/region"
	"github.com/adrianliechti/redactor/pkg/resolver"
	"github.com/adrianliechti/redactor/pkg/validator"
)

type detectorConfig struct {
	Categories []string `yaml:"categories"`
	Exclusions []string `yaml:"exclusions"`

	Timeout time.Duration `yaml:"timeout"`
}

type resolverConfig struct {
	Threshold float64 `yaml:"threshold"`
}

func (cfg *Config) registerDetection(f *configFile) error {
	var options []detector.Option

	if len(f.Detector.Categories) > 0 {
		var categories []pii.Category

		for _, val := range f.Detector.Categories {
			c, err := pii.ParseCategory(val)

			if err != nil {
				return err
			}

			categories = append(categories, c)
		}

		options = append(options, detector.WithCategories(categories...))
	}

	if len(f.Detector.Exclusions) > 0 {
		options = append(options, detector.WithExclusions(f.Detector.Exclusions...))
	}

	if f.Detector.Timeout > 0 {
		options = append(options, detector.WithMatchTimeout(f.Detector.Timeout))
	}

	var resolverOptions []resolver.Option

	if f.Resolver.Threshold > 0 {
		resolverOptions = append(resolverOptions, resolver.WithThreshold(f.Resolver.Threshold))
	}

	cfg.detector = detector.New(options...)
	cfg.resolver = resolver.New(resolverOptions...)
	cfg.validator = validator.New(f.Validator)
	cfg.region = region.New()

	return nil
}
