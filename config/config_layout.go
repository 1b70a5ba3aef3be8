package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/layout/azure"
	"github.com/adrianliechti/redactor/pkg/layout/multi"
	"github.com/adrianliechti/redactor/pkg/layout/ocr"
	"github.com/adrianliechti/redactor/pkg/layout/pdf"
	"github.com/adrianliechti/redactor/pkg/limiter"
	"github.com/adrianliechti/redactor/pkg/otel"
	"github.com/adrianliechti/redactor/pkg/raster"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterLayout(id string, p layout.Provider) {
	if cfg.layout == nil {
		cfg.layout = make(map[string]layout.Provider)
	}

	if _, ok := cfg.layout[""]; !ok {
		cfg.layout[""] = p
	}

	cfg.layout[id] = p
}

func (cfg *Config) Layout(id string) (layout.Provider, error) {
	if cfg.layout != nil {
		if p, ok := cfg.layout[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("layout not found: " + id)
}

type layoutConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`

	DPI           float64  `yaml:"dpi"`
	Languages     []string `yaml:"languages"`
	MinConfidence *float64 `yaml:"min_confidence"`

	Proxy *proxyConfig `yaml:"proxy"`

	Limit *int `yaml:"limit"`
}

type layoutContext struct {
	Rasterizer raster.Rasterizer

	Limiter *rate.Limiter
}

func (cfg *Config) registerLayouts(f *configFile) error {
	var configs map[string]layoutConfig

	if err := f.Layouts.Decode(&configs); err != nil {
		return err
	}

	if len(configs) == 0 {
		return cfg.registerDefaultLayouts()
	}

	var providers []layout.Provider

	for _, node := range f.Layouts.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := layoutContext{
			Rasterizer: cfg.rasterizer,

			Limiter: createLimiter(config.Limit),
		}

		p, err := createLayout(config, context)

		if err != nil {
			return err
		}

		p = decorateLayout(id, config.Type, p, context.Limiter)

		providers = append(providers, p)

		cfg.RegisterLayout(id, p)
	}

	cfg.layout[""] = multi.New(providers...)

	return nil
}

// registerDefaultLayouts reads native text first and falls back to OCR.
func (cfg *Config) registerDefaultLayouts() error {
	native, err := pdf.New()

	if err != nil {
		return err
	}

	scanned, err := ocr.New(cfg.rasterizer)

	if err != nil {
		return err
	}

	providers := []layout.Provider{
		decorateLayout("pdf", "pdf", native, nil),
		decorateLayout("ocr", "ocr", scanned, nil),
	}

	cfg.RegisterLayout("", multi.New(providers...))

	cfg.RegisterLayout("pdf", providers[0])
	cfg.RegisterLayout("ocr", providers[1])

	return nil
}

func decorateLayout(id, typ string, p layout.Provider, l *rate.Limiter) layout.Provider {
	if _, ok := p.(limiter.Layout); !ok {
		p = limiter.NewLayout(l, p)
	}

	if _, ok := p.(otel.Layout); !ok {
		p = otel.NewLayout(strings.ToLower(typ), id, p)
	}

	return p
}

func createLayout(cfg layoutConfig, context layoutContext) (layout.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "pdf":
		return pdfLayout(cfg)

	case "ocr", "tesseract":
		return ocrLayout(cfg, context)

	case "azure":
		return azureLayout(cfg)

	default:
		return nil, errors.New("invalid layout type: " + cfg.Type)
	}
}

func pdfLayout(cfg layoutConfig) (layout.Provider, error) {
	return pdf.New()
}

func ocrLayout(cfg layoutConfig, context layoutContext) (layout.Provider, error) {
	var options []ocr.Option

	if cfg.DPI > 0 {
		options = append(options, ocr.WithDPI(cfg.DPI))
	}

	if len(cfg.Languages) > 0 {
		options = append(options, ocr.WithLanguages(cfg.Languages...))
	}

	if cfg.MinConfidence != nil {
		options = append(options, ocr.WithMinConfidence(*cfg.MinConfidence))
	}

	return ocr.New(context.Rasterizer, options...)
}

func azureLayout(cfg layoutConfig) (layout.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithToken(cfg.Token))
	}

	if cfg.Model != "" {
		options = append(options, azure.WithModel(cfg.Model))
	}

	client, err := cfg.Proxy.proxyClient()

	if err != nil {
		return nil, err
	}

	if client != nil {
		options = append(options, azure.WithClient(client))
	}

	return azure.New(cfg.URL, options...)
}
