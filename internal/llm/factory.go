package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new completion provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "anthropic", "claude", "":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: anthropic, openai, ollama)", config.Provider)
	}
}
