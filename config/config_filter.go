package config

import (
	"time"

	"github.com/adrianliechti/redactor/pkg/otel"
	"github.com/adrianliechti/redactor/pkg/semantic/llm"
)

type filterConfig struct {
	Model string `yaml:"model"`

	Timeout time.Duration `yaml:"timeout"`
	Window  int           `yaml:"window"`

	MaxTokens   *int     `yaml:"max_tokens"`
	Temperature *float32 `yaml:"temperature"`
}

func (cfg *Config) registerFilter(f *configFile) error {
	if f.Filter == nil {
		return nil
	}

	completer, err := cfg.Completer(f.Filter.Model)

	if err != nil {
		return err
	}

	var options []llm.Option

	if f.Filter.Timeout > 0 {
		options = append(options, llm.WithTimeout(f.Filter.Timeout))
	}

	if f.Filter.MaxTokens != nil {
		options = append(options, llm.WithMaxTokens(*f.Filter.MaxTokens))
	}

	if f.Filter.Temperature != nil {
		options = append(options, llm.WithTemperature(*f.Filter.Temperature))
	}

	name := f.Filter.Model

	if name == "" {
		name = "default"
	}

	cfg.filter = otel.NewFilter(name, llm.New(completer, options...))
	cfg.window = f.Filter.Window

	return nil
}
