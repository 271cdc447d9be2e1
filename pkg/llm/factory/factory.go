package factory

import (
	"fmt"

	"clinical-assistant-be/pkg/llm"
	"clinical-assistant-be/pkg/llm/gemini"
	"clinical-assistant-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured text-generation backend.
func NewLLMProvider(providerType, modelName, baseURL, geminiApiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider selected but GOOGLE_GEMINI_API_KEY is empty")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
