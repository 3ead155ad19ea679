package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenAIClient implements Client on the unified google.golang.org/genai SDK.
type GenAIClient struct {
	client *genai.Client
	config *Config
}

// NewGenAIClient creates a client for the Gemini API backend.
func NewGenAIClient(ctx context.Context, config *Config, apiKey string) (*GenAIClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIClient{client: client, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)})
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GenAIClient) generate(ctx context.Context, prompt string, tier ModelTier, cfg *genai.GenerateContentConfig) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// Only the first candidate with content is used.
		if builder.Len() > 0 {
			break
		}
	}
	if builder.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return builder.String(), nil
}

// Embed returns the embedding of text
func (c *GenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Models.EmbedContent(ctx, c.config.EmbeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.Embeddings[0].Values, nil
}

// GetModel returns the model name for a tier
func (c *GenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai client holds no closable resources.
func (c *GenAIClient) Close() error {
	return nil
}
