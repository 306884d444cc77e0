package llm

import "time"

type GroqProvider struct {
	*OpenAIProvider
}

func NewGroqProvider(apiKey, model string, timeout time.Duration) *GroqProvider {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqProvider{
		OpenAIProvider: newOpenAICompatible("groq", "https://api.groq.com/openai/v1", apiKey, model, timeout),
	}
}
