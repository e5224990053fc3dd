package services

import (
	"context"
	"fmt"

	"alfredoptarigan/resume-ranker/internal/config"
)

// GenerateRequest is one model call. System holds ordered system instructions.
type GenerateRequest struct {
	System []string
	Prompt string
}

// Generator is the transport to a hosted model.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Provider() string
	Model() string
}

// NewGenerator picks the provider named in the configuration.
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens)
	case "claude":
		return NewClaudeGenerator(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
