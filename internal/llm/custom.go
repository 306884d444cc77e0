package llm

import "time"

// CustomProvider targets any OpenAI-compatible endpoint, e.g. a local
// llama.cpp or vLLM server.
type CustomProvider struct {
	*OpenAIProvider
}

func NewCustomProvider(baseURL, apiKey, model string, timeout time.Duration) *CustomProvider {
	return &CustomProvider{
		OpenAIProvider: newOpenAICompatible("custom", baseURL, apiKey, model, timeout),
	}
}
