package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterClientComplete(t *testing.T) {
	var got chatRequest
	var headers http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"# Reply"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(ClientOptions{APIKey: "key", Endpoint: server.URL, Model: "test/model"})

	reply, err := client.Complete(context.Background(), "make a map", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "# Reply", reply)

	assert.Equal(t, "Bearer key", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.NotEmpty(t, headers.Get("HTTP-Referer"))
	assert.NotEmpty(t, headers.Get("X-Title"))

	assert.Equal(t, "test/model", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.Equal(t, 0.7, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "be brief"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "make a map"}, got.Messages[1])
}

func TestOpenRouterClientFallbackSystemPrompt(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient(ClientOptions{APIKey: "key", Endpoint: server.URL})
	_, err := client.Complete(context.Background(), "prompt", "")
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, fallbackSystemPrompt, got.Messages[0].Content)
	assert.Equal(t, DefaultModel, got.Model)
}

func TestOpenRouterClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantMsg: "ai request failed (500): boom"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrNoContent},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, wantErr: ErrNoContent},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantMsg: "failed to decode ai response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOpenRouterClient(ClientOptions{APIKey: "key", Endpoint: server.URL})
			_, err := client.Complete(context.Background(), "prompt", "system")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestOpenRouterClientPreconditions(t *testing.T) {
	_, err := NewOpenRouterClient(ClientOptions{}).Complete(context.Background(), "prompt", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewOpenRouterClient(ClientOptions{APIKey: "key"}).Complete(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
