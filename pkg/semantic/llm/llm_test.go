package llm

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/provider"

	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	calls atomic.Int64

	reply string
	err   error
	delay time.Duration

	prompt  string
	options *provider.CompleteOptions
}

func (m *mockCompleter) Complete(ctx context.Context, messages []provider.Message, options *provider.CompleteOptions) (*provider.Completion, error) {
	m.calls.Add(1)

	m.prompt = messages[len(messages)-1].Text()
	m.options = options

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}

	if m.err != nil {
		return nil, m.err
	}

	return &provider.Completion{
		Message: &provider.Message{
			Role:    provider.MessageRoleAssistant,
			Content: []provider.Content{provider.TextContent(m.reply)},
		},
	}, nil
}

func TestIsLikelyNonPII(t *testing.T) {
	ctx := context.Background()

	t.Run("request", func(t *testing.T) {
		c := &mockCompleter{reply: "YES"}
		f := New(c)

		require.False(t, f.IsLikelyNonPII(ctx, "ASHISH", "Name: ASHISH", pii.CategoryPersonName))
		require.Equal(t, int64(1), c.calls.Load())

		require.True(t, strings.HasPrefix(c.prompt, "TEXT: \"ASHISH\"\nCONTEXT: \"Name: ASHISH\"\n\n"))
		require.Contains(t, c.prompt, "name of a person")

		require.Equal(t, DefaultMaxTokens, *c.options.MaxTokens)
		require.InDelta(t, DefaultTemperature, *c.options.Temperature, 0.0001)
	})

	t.Run("label", func(t *testing.T) {
		f := New(&mockCompleter{reply: "NO, it is a label"})
		require.True(t, f.IsLikelyNonPII(ctx, "Name:", "", pii.CategoryPersonName))
	})

	t.Run("error", func(t *testing.T) {
		f := New(&mockCompleter{err: errors.New("unavailable")})
		require.False(t, f.IsLikelyNonPII(ctx, "2024", "", pii.CategoryIDNumber))
	})

	t.Run("timeout", func(t *testing.T) {
		c := &mockCompleter{reply: "NO", delay: time.Second}
		f := New(c, WithTimeout(10*time.Millisecond))

		start := time.Now()

		require.False(t, f.IsLikelyNonPII(ctx, "12/05/1999", "", pii.CategoryDate))
		require.Less(t, time.Since(start), 500*time.Millisecond)
	})
}

func TestIsPII(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		text     string
		category pii.Category
		want     bool
	}{
		{"yes", "YES", "ASHISH", pii.CategoryPersonName, true},
		{"yes lower", "yes.", "12/05/1999", pii.CategoryDate, true},
		{"think block", "<think>the answer is no</think>YES", "ASHISH", pii.CategoryPersonName, true},
		{"empty", "", "ASHISH", pii.CategoryPersonName, true},

		{"no name", "NO", "Kumar", pii.CategoryPersonName, true},
		{"no name label", "NO - LABEL", "Name:", pii.CategoryPersonName, false},
		{"no id generic", "No, generic number", "464", pii.CategoryIDNumber, false},
		{"no id", "NO", "2024", pii.CategoryIDNumber, true},
		{"no phone", "NO", "12345", pii.CategoryPhoneNumber, false},
		{"no date", "No", "Date:", pii.CategoryDate, false},

		{"unclear name", "maybe", "Ashish", pii.CategoryPersonName, true},
		{"unclear tech name", "maybe", "Nodejs", pii.CategoryPersonName, false},
		{"unclear short id", "unsure", "464", pii.CategoryIDNumber, false},
		{"unclear id", "unsure", "1282300", pii.CategoryIDNumber, true},
		{"unclear other", "unknown", "Delhi", pii.CategoryAddress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isPII(tt.reply, tt.text, tt.category))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	require.Contains(t, buildPrompt("2024", "", pii.CategoryIDNumber), "personal identifier")
	require.Contains(t, buildPrompt("98765", "", pii.CategoryPhoneNumber), "phone number")
	require.Contains(t, buildPrompt("Delhi", "", pii.CategoryAddress), "When in doubt, answer YES.")
}
