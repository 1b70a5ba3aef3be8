package anthropic

import (
	"context"
	"errors"

	"github.com/adrianliechti/redactor/pkg/provider"

	"github.com/anthropics/anthropic-sdk-go"
)

var _ provider.Completer = (*Completer)(nil)

type Completer struct {
	*Config
	messages anthropic.MessageService
}

func NewCompleter(url, model string, options ...Option) (*Completer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Completer{
		Config:   cfg,
		messages: anthropic.NewMessageService(cfg.Options()...),
	}, nil
}

func (c *Completer) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	if options == nil {
		options = new(provider.CompleteOptions)
	}

	req, err := c.convertMessageRequest(messages, options)

	if err != nil {
		return nil, err
	}

	message, err := c.messages.New(ctx, *req)

	if err != nil {
		return nil, err
	}

	result := &provider.Completion{
		ID:     message.ID,
		Model:  c.model,
		Reason: toCompletionResult(string(message.StopReason)),

		Message: &provider.Message{
			Role: provider.MessageRoleAssistant,
		},

		Usage: toUsage(message.Usage),
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			result.Message.Content = append(result.Message.Content, provider.TextContent(block.Text))
		}
	}

	return result, nil
}

func (c *Completer) convertMessageRequest(input []provider.Message, options *provider.CompleteOptions) (*anthropic.MessageNewParams, error) {
	req := &anthropic.MessageNewParams{
		Model: anthropic.Model(c.model),

		MaxTokens: 1024,
	}

	if options.MaxTokens != nil {
		req.MaxTokens = int64(*options.MaxTokens)
	}

	if options.Temperature != nil {
		req.Temperature = anthropic.Float(float64(*options.Temperature))
	}

	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, m := range input {
		text := m.Text()

		switch m.Role {
		case provider.MessageRoleSystem:
			if text != "" {
				system = append(system, anthropic.TextBlockParam{Text: text})
			}

		case provider.MessageRoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))

		case provider.MessageRoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))

		default:
			return nil, errors.New("unsupported message role: " + string(m.Role))
		}
	}

	if len(system) > 0 {
		req.System = system
	}

	req.Messages = messages

	return req, nil
}

func toCompletionResult(val string) provider.CompletionReason {
	switch val {
	case "max_tokens":
		return provider.CompletionReasonLength

	case "refusal":
		return provider.CompletionReasonFilter

	default:
		return provider.CompletionReasonStop
	}
}

func toUsage(usage anthropic.Usage) *provider.Usage {
	if usage.InputTokens == 0 && usage.OutputTokens == 0 {
		return nil
	}

	return &provider.Usage{
		InputTokens:  int(usage.InputTokens),
		OutputTokens: int(usage.OutputTokens),
	}
}
