package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/v1/"
	cfg.Timeout = 5 * time.Second
	p, err := NewOpenAIProvider(cfg)
	require.NoError(t, err)
	return p
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gemini-1.5-flash",
		"choices": []map[string]interface{}{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestCompleteSendsSystemHistoryAndPrompt(t *testing.T) {
	var got capturedRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("Section 302 IPC deals with murder."))
	})

	reply, err := p.Complete(context.Background(), CompletionRequest{
		System:      "You are a legal assistant.",
		History:     []Turn{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}},
		Prompt:      "What is Section 302?",
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Section 302 IPC deals with murder.", reply)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "What is Section 302?", got.Messages[3].Content)
	assert.Equal(t, "gemini-1.5-flash", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 0.001)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestCompleteClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, ErrTypeRateLimit},
		{"bad key", http.StatusUnauthorized, ErrTypeConfig},
		{"server error", http.StatusInternalServerError, ErrTypeProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"error"}}`)
			})
			_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "q"})
			var aiErr *AIError
			require.True(t, errors.As(err, &aiErr), "got %v", err)
			assert.Equal(t, tt.want, aiErr.Type)
		})
	}
}

func TestCompleteRejectsEmptyReply(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("   "))
	})
	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "q"})
	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeProvider, aiErr.Type)
}

func TestStreamComplete(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Article ", "21"} {
			chunk, _ := json.Marshal(map[string]interface{}{
				"id":      "c",
				"object":  "chat.completion.chunk",
				"choices": []map[string]interface{}{{"index": 0, "delta": map[string]string{"content": part}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var sb strings.Builder
	err := p.StreamComplete(context.Background(), CompletionRequest{Prompt: "right to life"}, func(d string) error {
		sb.WriteString(d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Article 21", sb.String())
}

func TestNewOpenAIProviderValidatesConfig(t *testing.T) {
	_, err := NewOpenAIProvider(DefaultConfig())
	var aiErr *AIError
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ErrTypeConfig, aiErr.Type)
}
