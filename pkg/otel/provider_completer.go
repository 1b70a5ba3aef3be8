package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/redactor/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.38.0/genaiconv"
)

type Completer interface {
	Observable
	provider.Completer
}

type observableCompleter struct {
	model    string
	provider string

	completer provider.Completer

	tokenUsageMetric        genaiconv.ClientTokenUsage
	operationDurationMetric genaiconv.ClientOperationDuration
}

func NewCompleter(provider, model string, p provider.Completer) Completer {
	meter := otel.Meter(instrumentationName)

	tokenUsageMetric, _ := genaiconv.NewClientTokenUsage(meter)
	operationDurationMetric, _ := genaiconv.NewClientOperationDuration(meter)

	return &observableCompleter{
		completer: p,

		model:    model,
		provider: provider,

		tokenUsageMetric:        tokenUsageMetric,
		operationDurationMetric: operationDurationMetric,
	}
}

func (p *observableCompleter) otelSetup() {
}

func (p *observableCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "chat "+p.model)
	defer span.End()

	timestamp := time.Now()

	result, err := p.completer.Complete(ctx, messages, options)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	duration := time.Since(timestamp).Seconds()

	providerName := genaiconv.ProviderNameAttr(p.provider)
	providerModel := p.model

	if result.Model != "" {
		providerModel = result.Model
	}

	p.operationDurationMetric.Record(ctx, duration,
		genaiconv.OperationNameChat,
		providerName,
		KeyValues([]KeyValue{
			p.operationDurationMetric.AttrRequestModel(p.model),
			p.operationDurationMetric.AttrResponseModel(providerModel),
		}, EndUserAttrs(ctx))...,
	)

	if result.Usage != nil {
		if result.Usage.InputTokens > 0 {
			p.tokenUsageMetric.Record(ctx, int64(result.Usage.InputTokens),
				genaiconv.OperationNameChat,
				providerName,
				genaiconv.TokenTypeInput,
				KeyValues([]KeyValue{
					p.tokenUsageMetric.AttrRequestModel(p.model),
					p.tokenUsageMetric.AttrResponseModel(providerModel),
				}, EndUserAttrs(ctx))...,
			)
		}

		if result.Usage.OutputTokens > 0 {
			p.tokenUsageMetric.Record(ctx, int64(result.Usage.OutputTokens),
				genaiconv.OperationNameChat,
				providerName,
				genaiconv.TokenTypeOutput,
				KeyValues([]KeyValue{
					p.tokenUsageMetric.AttrRequestModel(p.model),
					p.tokenUsageMetric.AttrResponseModel(providerModel),
				}, EndUserAttrs(ctx))...,
			)
		}
	}

	return result, nil
}
