package llm

import "time"

type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(apiKey, model string, timeout time.Duration) *OpenRouterProvider {
	if model == "" {
		model = "meta-llama/llama-3.1-70b-instruct"
	}
	p := newOpenAICompatible("openrouter", "https://openrouter.ai/api/v1", apiKey, model, timeout)
	p.headers["X-Title"] = "quill"
	return &OpenRouterProvider{OpenAIProvider: p}
}
