package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/redactor/pkg/limiter"
	"github.com/adrianliechti/redactor/pkg/otel"
	"github.com/adrianliechti/redactor/pkg/provider"
	"github.com/adrianliechti/redactor/pkg/provider/anthropic"
	"github.com/adrianliechti/redactor/pkg/provider/openai"

	"golang.org/x/time/rate"
)

const groqURL = "https://api.groq.com/openai/v1"

type providerConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit   *int `yaml:"limit"`
	Retries *int `yaml:"retries"`

	Models []string `yaml:"models"`
}

type modelContext struct {
	ID string

	Limiter *rate.Limiter
}

func (cfg *Config) RegisterModel(id string) {
	if cfg.models == nil {
		cfg.models = make(map[string]provider.Model)
	}

	cfg.models[id] = provider.Model{
		ID: id,
	}
}

func (cfg *Config) Models() []provider.Model {
	var result []provider.Model

	for _, m := range cfg.models {
		result = append(result, m)
	}

	return result
}

func (cfg *Config) RegisterCompleter(id string, p provider.Completer) {
	cfg.RegisterModel(id)

	if cfg.completer == nil {
		cfg.completer = make(map[string]provider.Completer)
	}

	if _, ok := cfg.completer[""]; !ok {
		cfg.completer[""] = p
	}

	cfg.completer[id] = p
}

func (cfg *Config) Completer(id string) (provider.Completer, error) {
	if cfg.completer != nil {
		if c, ok := cfg.completer[id]; ok {
			return c, nil
		}
	}

	return nil, errors.New("completer not found: " + id)
}

func (cfg *Config) registerProviders(f *configFile) error {
	for _, p := range f.Providers {
		limiter := createLimiter(p.Limit)

		for _, id := range p.Models {
			context := modelContext{
				ID: id,

				Limiter: limiter,
			}

			completer, err := createCompleter(p, context)

			if err != nil {
				return err
			}

			cfg.RegisterCompleter(id, completer)
		}
	}

	return nil
}

func createCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var completer provider.Completer
	var err error

	switch strings.ToLower(cfg.Type) {
	case "openai":
		completer, err = openaiCompleter(cfg, model)

	case "groq":
		if cfg.URL == "" {
			cfg.URL = groqURL
		}

		completer, err = openaiCompleter(cfg, model)

	case "anthropic":
		completer, err = anthropicCompleter(cfg, model)

	default:
		return nil, errors.New("invalid completer type: " + cfg.Type)
	}

	if err != nil {
		return nil, err
	}

	if _, ok := completer.(limiter.Completer); !ok {
		completer = limiter.NewCompleter(model.Limiter, completer)
	}

	if _, ok := completer.(otel.Completer); !ok {
		completer = otel.NewCompleter(strings.ToLower(cfg.Type), model.ID, completer)
	}

	return completer, nil
}

func openaiCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if cfg.Retries != nil {
		options = append(options, openai.WithRetries(*cfg.Retries))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, openai.WithClient(client))
	}

	return openai.NewCompleter(cfg.URL, model.ID, options...)
}

func anthropicCompleter(cfg providerConfig, model modelContext) (provider.Completer, error) {
	var options []anthropic.Option

	if cfg.Token != "" {
		options = append(options, anthropic.WithToken(cfg.Token))
	}

	if cfg.Retries != nil {
		options = append(options, anthropic.WithRetries(*cfg.Retries))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, anthropic.WithClient(client))
	}

	return anthropic.NewCompleter(cfg.URL, model.ID, options...)
}
