package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// The structural contract a model answer must meet before normalization.
var responseSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"final_score"},
	"properties": map[string]interface{}{
		"final_score": map[string]interface{}{
			"type":    []string{"number", "string"},
			"pattern": `^\s*-?\d+(\.\d+)?\s*$`,
		},
		"details": map[string]interface{}{
			"type": []string{"object", "null"},
		},
	},
}

var (
	compiledSchema     *gojsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func loadResponseSchema() (*gojsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(responseSchema))
	})
	return compiledSchema, compiledSchemaErr
}

// ParseModelResponse extracts and validates the JSON object in a model answer.
// Every failure is a *ParseError.
func ParseModelResponse(raw string) (map[string]interface{}, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, &ParseError{Reason: err.Error(), Raw: raw}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: raw}
	}

	schema, err := loadResponseSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("schema validation: %v", err), Raw: raw}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &ParseError{Reason: strings.Join(problems, "; "), Raw: raw}
	}

	return payload, nil
}

// extractJSON finds the outermost valid JSON object in text that may carry
// markdown fences or surrounding prose.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	if strings.HasPrefix(text, "```") {
		var lines []string
		for _, line := range strings.Split(text, "\n") {
			if !strings.HasPrefix(strings.TrimSpace(line), "```") {
				lines = append(lines, line)
			}
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	for start != -1 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		end = strings.LastIndex(text[:end], "}")
	}

	return "", fmt.Errorf("response did not contain a valid JSON object")
}
