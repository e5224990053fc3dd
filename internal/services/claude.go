package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-sonnet-4-5"

type claudeMessages interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type claudeGenerator struct {
	messages    claudeMessages
	modelName   string
	temperature float32
	maxTokens   int64
}

func NewClaudeGenerator(apiKey, model string, temperature float32, maxTokens int) (Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return newClaudeGenerator(&client.Messages, model, temperature, maxTokens), nil
}

func newClaudeGenerator(messages claudeMessages, model string, temperature float32, maxTokens int) *claudeGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &claudeGenerator{
		messages:    messages,
		modelName:   model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
	}
}

func (c *claudeGenerator) Provider() string { return "claude" }

func (c *claudeGenerator) Model() string { return c.modelName }

func (c *claudeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.modelName),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(float64(c.temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	for _, instruction := range req.System {
		params.System = append(params.System, anthropic.TextBlockParam{Text: instruction})
	}

	resp, err := c.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
