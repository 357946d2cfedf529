package llm

import (
	"context"
	"errors"
	"time"

	"github.com/keycool/hotsearch/internal/model"
)

// Provider defines the interface for completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single user prompt and returns the model's text reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt sent as a single user-role message
type CompletionRequest struct {
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens overrides the configured response budget when set
	MaxTokens int
}

// CompletionResponse is the model's reply
type CompletionResponse struct {
	// Text is the concatenated text content, untrimmed
	Text string

	// Model is the model that generated the response
	Model string

	// StopReason is the provider's finish reason ("end_turn", "max_tokens", "stop", "length", ...)
	StopReason string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Truncated reports whether the reply stopped because it hit the token budget.
func (r *CompletionResponse) Truncated() bool {
	return r.StopReason == "max_tokens" || r.StopReason == "length"
}

// ErrEmptyResponse means the provider answered without any text content.
var ErrEmptyResponse = errors.New("empty completion response")

// Config holds completion provider configuration
type Config struct {
	// Provider name: "anthropic", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Anthropic/OpenAI
	APIKey string

	// BaseURL for custom endpoints (Anthropic-compatible gateways, Ollama)
	BaseURL string

	// Timeout bounds one completion call
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns the defaults used when a field is left empty
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Model:     "glm-4.6",
		Timeout:   5 * time.Minute,
		MaxTokens: 16000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// resolve fills request defaults from the provider config.
func (c Config) resolve(req CompletionRequest) (model string, maxTokens int) {
	model = req.Model
	if model == "" {
		model = c.Model
	}
	if model == "" {
		model = DefaultConfig().Model
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = DefaultConfig().MaxTokens
	}
	return model, maxTokens
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultConfig().Timeout
}
