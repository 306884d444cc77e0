package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"llama3.1:8b","message":{"role":"assistant","content":"hello"},"done":true,"done_reason":"stop","prompt_eval_count":3,"eval_count":2}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.1:8b", time.Second)
	req := NewRequest("be brief", "hi")
	req.Temperature = Float(0)
	req.MaxTokens = 64

	resp, err := p.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Contains(t, string(resp.Raw), `"done_reason":"stop"`)

	require.NotNil(t, got.Options)
	require.NotNil(t, got.Options.Temperature, "zero temperature must still be sent")
	assert.Equal(t, 0.0, *got.Options.Temperature)
	assert.Equal(t, 64, got.Options.NumPredict)
	assert.False(t, got.Stream)
	assert.Equal(t, []ollamaMessage{{Role: "system", Content: "be brief"}, {Role: "user", Content: "hi"}}, got.Messages)
}

func TestOllamaEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","message":{"role":"assistant","content":"  "},"done":true}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "m", time.Second).Complete(context.Background(), NewRequest("s", "u"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestProviderErrorOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	providers := []Provider{
		NewOllamaProvider(srv.URL, "m", time.Second),
		newOpenAICompatible("groq", srv.URL, "k", "m", time.Second),
		&AnthropicProvider{apiKey: "k", model: "m", baseURL: srv.URL, httpClient: newHTTPClient(time.Second)},
	}

	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := p.Complete(context.Background(), NewRequest("s", "u"))
			var perr *ProviderError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, p.Name(), perr.Provider)
			assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
			assert.True(t, perr.Unauthorized())
			assert.Contains(t, err.Error(), "bad key")
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOllamaProvider(url, "m", time.Second).Complete(context.Background(), NewRequest("s", "u"))
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Zero(t, perr.StatusCode)
	assert.NotNil(t, perr.Err)
}

func TestOpenAICompatibleComplete(t *testing.T) {
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"x","model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"answer"},"finish_reason":"stop"}],"usage":{"prompt_tokens":4,"completion_tokens":1,"total_tokens":5}}`))
	}))
	defer srv.Close()

	p := newOpenAICompatible("openai", srv.URL+"/", "sk-test", "gpt-4o-mini", time.Second)
	resp, err := p.Complete(context.Background(), NewRequest("sys", "question"))
	require.NoError(t, err)

	assert.Equal(t, "answer", resp.Content)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Nil(t, got.Temperature)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newOpenAICompatible("custom", srv.URL, "", "m", time.Second).Complete(context.Background(), NewRequest("s", "u"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropicHoistsSystem(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"claude","content":[{"type":"text","text":"hi "},{"type":"text","text":"there"}],"stop_reason":"end_turn","usage":{"input_tokens":7,"output_tokens":2}}`))
	}))
	defer srv.Close()

	p := &AnthropicProvider{apiKey: "k", model: "claude", baseURL: srv.URL, httpClient: newHTTPClient(time.Second)}
	resp, err := p.Complete(context.Background(), NewRequest("rules", "hello"))
	require.NoError(t, err)

	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, 9, resp.Usage.TotalTokens)
	assert.Equal(t, "rules", got.System)
	assert.Equal(t, []anthropicMessage{{Role: "user", Content: "hello"}}, got.Messages)
	assert.Equal(t, 2048, got.MaxTokens)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, NewOllamaProvider(srv.URL, "m", time.Second).Ping(context.Background()))
	assert.Error(t, newOpenAICompatible("groq", srv.URL, "k", "m", time.Second).Ping(context.Background()))
}

func TestToGeminiContents(t *testing.T) {
	system, contents := toGeminiContents([]Message{
		System("a"), System("b"), User("q"), {Role: RoleAssistant, Content: "r"},
	})
	require.NotNil(t, system)
	assert.Equal(t, "a\n\nb", system.Parts[0].Text)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)

	system, _ = toGeminiContents([]Message{User("only")})
	assert.Nil(t, system)
}
