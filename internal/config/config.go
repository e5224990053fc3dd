package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	Ledger   LedgerConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string        `validate:"required"`
	Env          string        `validate:"required"`
	WriteTimeout time.Duration `validate:"gt=0"`
}

type LLMConfig struct {
	Provider          string        `validate:"oneof=gemini claude"`
	APIKey            string        `validate:"required"`
	Model             string        `validate:"required"`
	Temperature       float32       `validate:"gte=0,lte=2"`
	MaxOutputTokens   int           `validate:"gt=0"`
	AttemptTimeout    time.Duration `validate:"gt=0"`
	RequestsPerMinute int           `validate:"gt=0"`
}

type AnalysisConfig struct {
	SkillDictionaryPath string
	InsufficientPhrases []string
	ExcerptMaxChars     int   `validate:"gt=0"`
	DuplicatePenalty    int   `validate:"gte=0,lte=100"`
	ClampCeiling        int   `validate:"gte=0,lte=100"`
	MaxRawPayloadBytes  int64 `validate:"gte=0"`
}

type LedgerConfig struct {
	Backend       string        `validate:"oneof=memory redis"`
	Retention     time.Duration `validate:"gt=0"`
	PurgeInterval time.Duration `validate:"gt=0"`
}

type RedisConfig struct {
	Address   string `validate:"required_if=Enabled true"`
	Password  string
	DB        int `validate:"gte=0"`
	KeyPrefix string
	Enabled   bool
}

type StorageConfig struct {
	StagingPath string `validate:"required"`
	MaxFileSize int64  `validate:"gt=0"`
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	provider := getEnv("LLM_PROVIDER", "gemini")
	backend := getEnv("LEDGER_BACKEND", "memory")

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10m"),
		},
		LLM: LLMConfig{
			Provider:          provider,
			APIKey:            getEnv("LLM_API_KEY", defaultAPIKey(provider)),
			Model:             getEnv("LLM_MODEL", defaultModel(provider)),
			Temperature:       float32(getEnvAsFloat("LLM_TEMPERATURE", 0.2)),
			MaxOutputTokens:   getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 4096),
			AttemptTimeout:    getEnvAsDuration("MODEL_ATTEMPT_TIMEOUT", "90s"),
			RequestsPerMinute: getEnvAsInt("MODEL_REQUESTS_PER_MINUTE", 60),
		},
		Analysis: AnalysisConfig{
			SkillDictionaryPath: getEnv("SKILL_DICTIONARY_PATH", ""),
			InsufficientPhrases: getEnvAsList("INSUFFICIENT_EVIDENCE_PHRASES", "insufficient data,unable to assess"),
			ExcerptMaxChars:     getEnvAsInt("EXCERPT_MAX_CHARS", 6000),
			DuplicatePenalty:    getEnvAsInt("DUPLICATE_PENALTY", 10),
			ClampCeiling:        getEnvAsInt("CLAMP_CEILING", 5),
			MaxRawPayloadBytes:  getEnvAsInt64("MAX_RAW_PAYLOAD_BYTES", 2097152),
		},
		Ledger: LedgerConfig{
			Backend:       backend,
			Retention:     getEnvAsDuration("LEDGER_RETENTION", "5m"),
			PurgeInterval: getEnvAsDuration("LEDGER_PURGE_INTERVAL", "1m"),
		},
		Redis: RedisConfig{
			Address:   getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "resume-ranker:job:"),
			Enabled:   backend == "redis",
		},
		Storage: StorageConfig{
			StagingPath: getEnv("STAGING_PATH", os.TempDir()),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// Validate checks the loaded values against their struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func defaultAPIKey(provider string) string {
	if provider == "claude" {
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func defaultModel(provider string) string {
	if provider == "claude" {
		return "claude-sonnet-4-5"
	}
	return "gemini-2.5-flash"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList splits a comma separated value, dropping blank items.
func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
