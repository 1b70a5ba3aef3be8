package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/adrianliechti/redactor/pkg/provider"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var calls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		require.Equal(t, "claude-haiku-4-5", body["model"])
		require.NotEmpty(t, body["system"])
		require.Len(t, body["messages"], 1)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "NO, label"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 40, "output_tokens": 3}
		}`))
	}))

	defer server.Close()

	c, err := NewCompleter(server.URL, "claude-haiku-4-5", WithToken("secret"))
	require.NoError(t, err)

	completion, err := c.Complete(context.Background(), []provider.Message{
		provider.SystemMessage("Answer YES or NO."),
		provider.UserMessage("TEXT: \"Name:\""),
	}, nil)

	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	require.Equal(t, "NO, label", completion.Text())
	require.Equal(t, provider.CompletionReasonStop, completion.Reason)
	require.Equal(t, &provider.Usage{InputTokens: 40, OutputTokens: 3}, completion.Usage)
}
