package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultEmbeddingModel, config.EmbeddingModel)
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		embedding     string
		wantProvider  Provider
		wantEmbedding string
		wantErr       bool
	}{
		{name: "default provider", wantProvider: ProviderGemini, wantEmbedding: DefaultEmbeddingModel},
		{name: "genai", provider: "genai", embedding: "gemini-embedding-001", wantProvider: ProviderGenAI, wantEmbedding: "gemini-embedding-001"},
		{name: "unknown", provider: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.provider, tt.embedding)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, cfg.Provider)
			assert.Equal(t, tt.wantEmbedding, cfg.EmbeddingModel)
		})
	}
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, TierLite, ParseTier("lite"))
	assert.Equal(t, TierAdvanced, ParseTier("advanced"))
	assert.Equal(t, TierStandard, ParseTier("standard"))
	assert.Equal(t, TierStandard, ParseTier("bogus"))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "", (&Config{Models: map[ModelTier]string{}}).GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.EmbeddingModel, newConfig.EmbeddingModel)
}
