package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	last *CompletionRequest
	resp *CompletionResponse
	err  error
}

func (p *recordingProvider) Name() string                 { return "recording" }
func (p *recordingProvider) Ping(ctx context.Context) error { return nil }
func (p *recordingProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	p.last = req
	return p.resp, p.err
}

func TestClientChatDefaultsAndOptions(t *testing.T) {
	p := &recordingProvider{resp: &CompletionResponse{Content: "ok"}}
	c := NewClient(p, "m1", 0.3)

	resp, err := c.Chat(context.Background(), []Message{User("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "m1", p.last.Model)
	assert.Equal(t, 0.3, *p.last.Temperature)
	assert.Zero(t, p.last.MaxTokens)

	_, err = c.Chat(context.Background(), []Message{User("hi")}, WithTemperature(0.9), WithMaxTokens(100))
	require.NoError(t, err)
	assert.Equal(t, 0.9, *p.last.Temperature)
	assert.Equal(t, 100, p.last.MaxTokens)
}

func TestClientChatErrors(t *testing.T) {
	boom := &ProviderError{Provider: "recording", StatusCode: 500}
	c := NewClient(&recordingProvider{err: boom}, "m", 0)
	_, err := c.Chat(context.Background(), []Message{User("hi")})
	assert.True(t, errors.Is(err, boom))

	c = NewClient(&recordingProvider{resp: &CompletionResponse{}}, "m", 0)
	_, err = c.Chat(context.Background(), []Message{User("hi")})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = c.Chat(context.Background(), nil)
	assert.Error(t, err)
}
