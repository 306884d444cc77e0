package llm

import (
	"context"
	"errors"
)

// Client wraps a provider with the session's default sampling settings.
type Client struct {
	provider    Provider
	model       string
	temperature float64
}

func NewClient(provider Provider, model string, temperature float64) *Client {
	return &Client{provider: provider, model: model, temperature: temperature}
}

func (c *Client) Provider() Provider {
	return c.provider
}

type ChatOption func(*CompletionRequest)

func WithTemperature(t float64) ChatOption {
	return func(r *CompletionRequest) { r.Temperature = Float(t) }
}

func WithMaxTokens(n int) ChatOption {
	return func(r *CompletionRequest) { r.MaxTokens = n }
}

// Chat sends msgs in order and returns the full response. Provider and
// network failures come back as errors, never as empty content.
func (c *Client) Chat(ctx context.Context, msgs []Message, opts ...ChatOption) (*CompletionResponse, error) {
	if len(msgs) == 0 {
		return nil, errors.New("chat needs at least one message")
	}

	req := &CompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: Float(c.temperature),
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Content == "" {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}
