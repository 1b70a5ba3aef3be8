package otel

import (
	"context"

	"github.com/adrianliechti/redactor/pkg/layout"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Layout interface {
	Observable
	layout.Provider
}

type observableLayout struct {
	name     string
	provider string

	layout layout.Provider
}

func NewLayout(provider, name string, p layout.Provider) Layout {
	return &observableLayout{
		layout: p,

		name:     name,
		provider: provider,
	}
}

func (p *observableLayout) otelSetup() {
}

func (p *observableLayout) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "extract "+p.name)
	defer span.End()

	span.SetAttributes(
		attribute.String("layout.provider", p.provider),
		attribute.String("file.name", file.Name),
	)

	result, err := p.layout.Extract(ctx, file, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("layout.pages", len(result.Pages)))

	return result, nil
}
