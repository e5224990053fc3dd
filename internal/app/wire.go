// Package app assembles the analysis pipeline from configuration. The HTTP
// server and the rank CLI share it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/services"
)

// NewLedger returns the configured progress ledger and a function releasing
// its resources.
func NewLedger(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.ProgressLedger, func() error, error) {
	switch cfg.Ledger.Backend {
	case "redis":
		client := services.NewRedisClient(cfg.Redis)
		ledger := services.NewRedisLedger(client, cfg.Redis.KeyPrefix, cfg.Ledger.Retention)
		if err := ledger.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.Info("using redis progress ledger", zap.String("addr", cfg.Redis.Address))
		return ledger, client.Close, nil
	case "memory", "":
		log.Info("using in-memory progress ledger", zap.Duration("retention", cfg.Ledger.Retention))
		return services.NewMemoryLedger(cfg.Ledger.Retention), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// NewOrchestrator wires extraction, scoring and guardrails around ledger.
func NewOrchestrator(
	ctx context.Context,
	cfg *config.Config,
	ledger services.ProgressLedger,
	log *zap.Logger,
) (services.BatchOrchestrator, error) {
	dictionary, err := config.LoadSkillDictionary(cfg.Analysis.SkillDictionaryPath)
	if err != nil {
		return nil, err
	}

	generator, err := services.NewGenerator(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.LLM.Provider, err)
	}
	log.Info("model client initialized",
		zap.String("provider", generator.Provider()),
		zap.String("model", generator.Model()),
	)

	storage := services.NewStorageService(cfg.Storage.StagingPath)
	if err := storage.EnsureStagingDir(); err != nil {
		return nil, err
	}

	scorer := services.NewModelScoringClient(generator, services.ScorerConfig{
		AttemptTimeout:    cfg.LLM.AttemptTimeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		ExcerptMaxChars:   cfg.Analysis.ExcerptMaxChars,
	}, log)

	guardrail := services.NewScoreGuardrail(services.GuardrailConfig{
		Dictionary:          dictionary,
		InsufficientPhrases: cfg.Analysis.InsufficientPhrases,
		ClampCeiling:        cfg.Analysis.ClampCeiling,
	})

	return services.NewBatchOrchestrator(
		ledger,
		storage,
		services.NewTextExtractor(log),
		services.NewSkillExtractor(dictionary),
		scorer,
		guardrail,
		services.OrchestratorConfig{
			DuplicatePenalty:   cfg.Analysis.DuplicatePenalty,
			MaxRawPayloadBytes: cfg.Analysis.MaxRawPayloadBytes,
		},
		log,
	), nil
}
