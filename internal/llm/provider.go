package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/knowval/internal/model"
)

var (
	// ErrProviderDisabled is returned when no narrative provider is configured
	ErrProviderDisabled = errors.New("narrative provider disabled")

	// ErrEmptyNarrative is returned when the provider answers with blank text
	ErrEmptyNarrative = errors.New("narrative response is empty")
)

// Provider defines the interface for text-generation backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Endpoint returns the base URL requests are sent to
	Endpoint() string

	// Generate returns the raw completion for a system and user prompt
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	System      string
	Prompt      string
	Model       string // Provider default when empty
	MaxTokens   int
	Temperature float64
}

// Config holds narrative provider configuration
type Config struct {
	// Provider name: "openai", "groq", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Groq/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout bounds a whole narrative call
	Timeout time.Duration

	MaxTokens   int
	Temperature float64

	// Per-host request rate shared by concurrent calls
	RequestsPerSecond float64
	Burst             int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           20 * time.Second,
		MaxTokens:         800,
		Temperature:       0.2,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		MaxTokens:         c.MaxTokens,
		Temperature:       c.Temperature,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		HTTPProxy:         c.HTTPProxy,
		HTTPSProxy:        c.HTTPSProxy,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 800
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 20 * time.Second
}
