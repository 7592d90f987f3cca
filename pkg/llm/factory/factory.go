package factory

import (
	"fmt"
	"time"

	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/llm/deepseek"
	"ai-support-chat-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "deepseek":
		if apiKey == "" {
			return nil, fmt.Errorf("deepseek provider requires an API key")
		}
		return deepseek.NewDeepseekProvider(apiKey, baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
