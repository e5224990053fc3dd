package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelResponseAccepts(t *testing.T) {
	tests := map[string]string{
		"plain":                   `{"final_score": 72, "details": {"ai_summary": "ok"}}`,
		"fenced":                  "```json\n{\"final_score\": 72}\n```",
		"prose around":            "Here you go: {\"final_score\": 72, \"details\": null} hope it helps",
		"trailing brace in prose": `{"final_score": 72} and a stray } here`,
		"numeric string":          `{"final_score": " 72.5 "}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			payload, err := ParseModelResponse(raw)
			require.NoError(t, err)
			assert.Contains(t, payload, "final_score")
		})
	}
}

func TestParseModelResponseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":          "   ",
		"prose":          "The candidate looks strong overall.",
		"broken json":    `{"final_score": 72,`,
		"missing score":  `{"details": {}}`,
		"wrong type":     `{"final_score": [72]}`,
		"word score":     `{"final_score": "high"}`,
		"details string": `{"final_score": 1, "details": "none"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseModelResponse(raw)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, raw, parseErr.Raw)
		})
	}
}
