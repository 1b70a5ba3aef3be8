package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/provider"
	"github.com/adrianliechti/redactor/pkg/semantic"
)

var _ semantic.Filter = (*Filter)(nil)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxTokens   = 10
	DefaultTemperature = 0.1
)

// Filter asks a completion model whether a candidate is genuine PII.
type Filter struct {
	completer provider.Completer

	timeout     time.Duration
	maxTokens   int
	temperature float32
}

type Option func(*Filter)

func WithTimeout(val time.Duration) Option {
	return func(f *Filter) {
		f.timeout = val
	}
}

func WithMaxTokens(val int) Option {
	return func(f *Filter) {
		f.maxTokens = val
	}
}

func WithTemperature(val float32) Option {
	return func(f *Filter) {
		f.temperature = val
	}
}

func New(completer provider.Completer, options ...Option) *Filter {
	f := &Filter{
		completer: completer,

		timeout:     DefaultTimeout,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}

	for _, option := range options {
		option(f)
	}

	return f
}

func (f *Filter) IsLikelyNonPII(ctx context.Context, text, surrounding string, category pii.Category) bool {
	if f.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	messages := []provider.Message{
		provider.UserMessage(buildPrompt(text, surrounding, category)),
	}

	completion, err := f.completer.Complete(ctx, messages, &provider.CompleteOptions{
		MaxTokens:   &f.maxTokens,
		Temperature: &f.temperature,
	})

	if err != nil {
		slog.WarnContext(ctx, "semantic check failed", "category", category, "error", err)
		return false
	}

	reply := completion.Text()

	if isPII(reply, text, category) {
		slog.DebugContext(ctx, "semantic check confirmed pii", "category", category, "reply", reply)
		return false
	}

	slog.InfoContext(ctx, "semantic check released candidate", "category", category, "reply", reply)
	return true
}
