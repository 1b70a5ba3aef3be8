package otel

import (
	"context"

	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/semantic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Filter interface {
	Observable
	semantic.Filter
}

type observableFilter struct {
	name   string
	filter semantic.Filter

	decisions metric.Int64Counter
}

func NewFilter(name string, f semantic.Filter) Filter {
	meter := otel.Meter(instrumentationName)

	decisions, _ := meter.Int64Counter("redactor.filter.decisions",
		metric.WithDescription("Semantic filter decisions by category and outcome"),
	)

	return &observableFilter{
		name:   name,
		filter: f,

		decisions: decisions,
	}
}

func (p *observableFilter) otelSetup() {
}

func (p *observableFilter) IsLikelyNonPII(ctx context.Context, text, surrounding string, category pii.Category) bool {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "filter "+p.name)
	defer span.End()

	result := p.filter.IsLikelyNonPII(ctx, text, surrounding, category)

	attrs := []attribute.KeyValue{
		attribute.String("pii.category", string(category)),
		attribute.Bool("pii.released", result),
	}

	span.SetAttributes(attrs...)

	if p.decisions != nil {
		p.decisions.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	return result
}
