package config

import (
	"bytes"
	"os"

	"github.com/adrianliechti/redactor/pkg/auth"
	"github.com/adrianliechti/redactor/pkg/detector"
	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/limiter"
	"github.com/adrianliechti/redactor/pkg/provider"
	"github.com/adrianliechti/redactor/pkg/raster"
	"github.com/adrianliechti/redactor/pkg/redactor"
	"github.com/adrianliechti/redactor/pkg/region"
	"github.com/adrianliechti/redactor/pkg/resolver"
	"github.com/adrianliechti/redactor/pkg/semantic"
	"github.com/adrianliechti/redactor/pkg/validator"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Jobs Jobs

	models map[string]provider.Model

	completer map[string]provider.Completer
	layout    map[string]layout.Provider

	filter semantic.Filter
	window int

	detector  *detector.Detector
	resolver  *resolver.Resolver
	validator *validator.Validator
	region    *region.Detector

	rasterizer raster.Rasterizer
	redactor   *redactor.Redactor
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerProviders(file); err != nil {
		return nil, err
	}

	if err := c.registerRedaction(file); err != nil {
		return nil, err
	}

	if err := c.registerLayouts(file); err != nil {
		return nil, err
	}

	if err := c.registerDetection(file); err != nil {
		return nil, err
	}

	if err := c.registerFilter(file); err != nil {
		return nil, err
	}

	if err := c.registerJobs(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Providers []providerConfig `yaml:"providers"`

	Layouts yaml.Node `yaml:"layouts"`

	Detector  detectorConfig    `yaml:"detector"`
	Resolver  resolverConfig    `yaml:"resolver"`
	Validator validator.Options `yaml:"validator"`

	Filter    *filterConfig   `yaml:"filter"`
	Redaction redactionConfig `yaml:"redaction"`

	Jobs jobsConfig `yaml:"jobs"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	config := configFile{
		Validator: validator.DefaultOptions(),
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return limiter.New(*limit)
}
