package llm

import (
	"context"
	"encoding/json"
)

// Provider is the interface all LLM providers must implement
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a completion request and returns the full response
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Ping checks if the provider is reachable
	Ping(ctx context.Context) error
}

const (
	RoleSystem = "system"
	RoleUser   = "user"

	// RoleAssistant is only used when replaying provider history.
	RoleAssistant = "assistant"
)

// CompletionRequest represents a request to the LLM. A nil Temperature
// leaves sampling to the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// Message represents a chat message
type Message struct {
	Role    string
	Content string
}

func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// CompletionResponse represents the full response
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage

	// Raw is the undecoded provider payload.
	Raw json.RawMessage
}

// Usage tracks token usage
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewRequest creates a simple completion request
func NewRequest(systemPrompt, userPrompt string) *CompletionRequest {
	return &CompletionRequest{
		Messages: []Message{System(systemPrompt), User(userPrompt)},
	}
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}
