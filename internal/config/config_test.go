package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "LEDGER_BACKEND", "LEDGER_RETENTION", "INSUFFICIENT_EVIDENCE_PHRASES", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg := Load()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.Retention)
	assert.Equal(t, 10, cfg.Analysis.DuplicatePenalty)
	assert.Equal(t, 6000, cfg.Analysis.ExcerptMaxChars)
	assert.Equal(t, []string{"insufficient data", "unable to assess"}, cfg.Analysis.InsufficientPhrases)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "claude-key")
	t.Setenv("LEDGER_BACKEND", "redis")
	t.Setenv("LEDGER_RETENTION", "90s")
	t.Setenv("INSUFFICIENT_EVIDENCE_PHRASES", " not enough info , ,cannot evaluate")

	cfg := Load()

	assert.Equal(t, "claude-key", cfg.LLM.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.Model)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Ledger.Retention)
	assert.Equal(t, []string{"not enough info", "cannot evaluate"}, cfg.Analysis.InsufficientPhrases)
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	cfg := Load()
	cfg.LLM.Provider = "openai"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.LLM.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Ledger.Retention = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadSkillDictionary(t *testing.T) {
	dict, err := LoadSkillDictionary("")
	require.NoError(t, err)
	assert.Contains(t, dict["Kubernetes"], "K8s")

	path := filepath.Join(t.TempDir(), "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Go:\n  - Go\n  - Golang\n\"API design\":\n  - API design\n  - ' '\n"), 0o644))

	dict, err = LoadSkillDictionary(path)
	require.NoError(t, err)
	assert.Len(t, dict, 2)
	assert.Equal(t, []string{"API design"}, dict["API design"])

	_, err = LoadSkillDictionary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultSkillDictionaryReturnsCopy(t *testing.T) {
	a := DefaultSkillDictionary()
	a["Python"][0] = "changed"

	b := DefaultSkillDictionary()
	assert.Equal(t, "Python", b["Python"][0])
}
