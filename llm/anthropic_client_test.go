package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &AnthropicClient{
		apiKey:     "test-key",
		httpClient: server.Client(),
		url:        server.URL,
		model:      "claude-sonnet-4-20250514",
	}
}

func TestAnthropicClient_GenerateInference(t *testing.T) {
	var captured struct {
		Model     string          `json:"model"`
		MaxTokens int             `json:"max_tokens"`
		System    string          `json:"system"`
		Messages  json.RawMessage `json:"messages"`
	}

	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Glass fibre it is."}},
		})
	})

	var reply string
	err := client.GenerateInference(context.Background(),
		[]Message{
			{Role: "user", Content: "glass fibre?"},
			{Role: "user", Content: `[Action Results: {"type": "search_processes"}]`, IsActionResult: true},
		},
		func(chunk string) error {
			reply += chunk
			return nil
		},
		WithSystemPrompt("You are an LCA assistant."),
		WithMaxTokens(512),
	)

	require.NoError(t, err)
	assert.Equal(t, "Glass fibre it is.", reply)
	assert.Equal(t, "claude-sonnet-4-20250514", captured.Model)
	assert.Equal(t, 512, captured.MaxTokens)
	assert.Equal(t, "You are an LCA assistant.", captured.System)

	// transcript-internal flags never reach the wire
	var messages []map[string]any
	require.NoError(t, json.Unmarshal(captured.Messages, &messages))
	require.Len(t, messages, 2)
	for _, m := range messages {
		assert.NotContains(t, m, "is_action_result")
		assert.Equal(t, "user", m["role"])
	}
}

func TestAnthropicClient_HTTPErrorSurfaces(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusTooManyRequests)
	})

	err := client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "hi"}},
		func(string) error { return nil },
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	client := newTestAnthropicClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	})

	err := client.GenerateInference(context.Background(),
		[]Message{{Role: "user", Content: "hi"}},
		func(string) error { return nil },
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}
