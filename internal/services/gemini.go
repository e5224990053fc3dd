package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	models          geminiModels
	modelName       string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float32, maxOutputTokens int) (Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiGenerator(client.Models, model, temperature, maxOutputTokens), nil
}

func newGeminiGenerator(models geminiModels, model string, temperature float32, maxOutputTokens int) *geminiGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = 4096
	}
	return &geminiGenerator{
		models:          models,
		modelName:       model,
		temperature:     temperature,
		maxOutputTokens: int32(maxOutputTokens),
	}
}

func (g *geminiGenerator) Provider() string { return "gemini" }

func (g *geminiGenerator) Model() string { return g.modelName }

// Generate implements Generator. An empty answer is returned as-is so the
// caller can treat it as an unparseable response.
func (g *geminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	temperature := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	if len(req.System) > 0 {
		parts := make([]*genai.Part, 0, len(req.System))
		for _, instruction := range req.System {
			parts = append(parts, &genai.Part{Text: instruction})
		}
		cfg.SystemInstruction = &genai.Content{Parts: parts}
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	return resp.Text(), nil
}
