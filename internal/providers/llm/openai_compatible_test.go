package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:      url,
		APIKey:       "sk-test",
		Model:        "gpt-4o-mini",
		AuthHeader:   "Authorization",
		AuthPrefix:   "Bearer ",
		ExtraHeaders: map[string]string{"X-Title": core.AppName},
	})
}

func TestOpenAICompatible_Chat(t *testing.T) {
	tools := []core.Tool{{
		Type: "function",
		Function: core.Function{
			Name:       "record_unknown_question",
			Parameters: json.RawMessage(`{"type":"object"}`),
		},
	}}

	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantFinish string
		wantCalls  int
		wantText   string
	}{
		{
			name:       "final answer",
			status:     http.StatusOK,
			body:       `{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":"Hello there"}}]}`,
			wantFinish: core.FinishStop,
			wantText:   "Hello there",
		},
		{
			name:   "tool calls",
			status: http.StatusOK,
			body: `{"choices":[{"finish_reason":"tool_calls","message":{"role":"assistant","content":null,"tool_calls":[
				{"id":"call_1","type":"function","function":{"name":"record_unknown_question","arguments":"{\"question\":\"q\"}"}}]}}]}`,
			wantFinish: core.FinishToolCalls,
			wantCalls:  1,
		},
		{
			name:    "http error",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"bad key"}}`,
			wantErr: "http 401",
		},
		{
			name:    "api error object",
			status:  http.StatusOK,
			body:    `{"error":{"message":"model overloaded","type":"server_error"}}`,
			wantErr: "model overloaded",
		},
		{
			name:    "empty choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantErr: "empty choices",
		},
		{
			name:    "broken json",
			status:  http.StatusOK,
			body:    `{"choices":`,
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got chatRequest
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				assert.Equal(t, core.AppName, r.Header.Get("X-Title"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			history := []core.Message{
				{Role: core.RoleSystem, Content: "You are acting as Ada."},
				{Role: core.RoleUser, Content: "hi"},
			}
			completion, err := newTestClient(ts.URL).Chat(context.Background(), history, tools)

			assert.Equal(t, "gpt-4o-mini", got.Model)
			assert.Equal(t, history, got.Messages)
			assert.Len(t, got.Tools, 1)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFinish, completion.FinishReason)
			assert.Equal(t, core.RoleAssistant, completion.Message.Role)
			assert.Len(t, completion.Message.ToolCalls, tt.wantCalls)
			assert.Equal(t, tt.wantText, completion.Message.Content)
		})
	}
}

func TestOpenAICompatible_ChatOmitsEmptyTools(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.NotContains(t, raw, "tools")
		fmt.Fprint(w, `{"choices":[{"finish_reason":"stop","message":{"content":"ok"}}]}`)
	}))
	defer ts.Close()

	completion, err := newTestClient(ts.URL).Chat(context.Background(), []core.Message{{Role: core.RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Message.Content)
	assert.Equal(t, core.RoleAssistant, completion.Message.Role, "missing role defaults to assistant")
}

func TestOpenAICompatible_Models(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[{"id":"gpt-4o-mini"},{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000}]}`)
	}))
	defer ts.Close()

	models, err := newTestClient(ts.URL).listModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "gpt-4o-mini", Name: "gpt-4o-mini"},
		{ID: "openai/gpt-4o", Name: "GPT-4o", ContextLength: 128000},
	}, models)
}

func TestOllama_Models(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"llama3.1:8b"}]}`)
	}))
	defer ts.Close()

	models, err := NewOllama(ts.URL, "", "llama3.1:8b").Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama3.1:8b", models[0].ID)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider string
		wantErr  bool
	}{
		{provider: "openai"},
		{provider: "openrouter"},
		{provider: "ollama"},
		{provider: "custom"},
		{provider: "anthropic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := NewProvider(ctx, &config.ProviderConfig{Provider: tt.provider, Model: "m"})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "m", p.Model())
		})
	}
}
