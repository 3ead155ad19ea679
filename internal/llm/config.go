// Package llm wraps the hosted language models used for resume rewriting and
// embedding-based ranking behind one client interface.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short, cheap generations
	TierLite ModelTier = "lite"
	// TierStandard is the default for rewriting
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or nuanced rewrites
	TierAdvanced ModelTier = "advanced"
)

// Provider selects the SDK a client is built on.
type Provider string

const (
	// ProviderGemini uses github.com/google/generative-ai-go
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses google.golang.org/genai
	ProviderGenAI Provider = "genai"
)

// DefaultEmbeddingModel is used when no embedding model is configured.
const DefaultEmbeddingModel = "text-embedding-004"

// Config holds the model configuration for the application
type Config struct {
	Provider       Provider
	Models         map[ModelTier]string
	EmbeddingModel string
}

// DefaultConfig returns the Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		EmbeddingModel: DefaultEmbeddingModel,
	}
}

// NewConfig returns the default model set for provider with the given embedding model.
func NewConfig(provider, embeddingModel string) (*Config, error) {
	cfg := DefaultConfig()
	switch Provider(provider) {
	case "", ProviderGemini:
		cfg.Provider = ProviderGemini
	case ProviderGenAI:
		cfg.Provider = ProviderGenAI
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
	if embeddingModel != "" {
		cfg.EmbeddingModel = embeddingModel
	}
	return cfg, nil
}

// ParseTier converts a configuration string into a ModelTier, defaulting to standard.
func ParseTier(s string) ModelTier {
	switch ModelTier(s) {
	case TierLite, TierAdvanced:
		return ModelTier(s)
	default:
		return TierStandard
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:       c.Provider,
		Models:         make(map[ModelTier]string, len(c.Models)+1),
		EmbeddingModel: c.EmbeddingModel,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
