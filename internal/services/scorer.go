package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
)

// scoringMaxAttempts allows exactly one retry of an unparseable answer.
const scoringMaxAttempts = 2

// RetryPolicy retries unparseable answers without backoff. Any other error ends
// the run at once.
type RetryPolicy struct {
	MaxAttempts int
}

// AttemptFunc performs attempt number n, starting at 1.
type AttemptFunc func(ctx context.Context, n int) (map[string]interface{}, error)

// Run returns the first parsed payload or a *ScoringError.
func (p RetryPolicy) Run(ctx context.Context, attempt AttemptFunc) (map[string]interface{}, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		payload, err := attempt(ctx, n)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			return nil, &ScoringError{Kind: FailureTransport, Attempts: n, Err: err}
		}
	}

	return nil, &ScoringError{Kind: FailureParse, Attempts: maxAttempts, Err: lastErr}
}

// ModelScoringClient asks the model to score one resume against the job profile.
type ModelScoringClient interface {
	Score(ctx context.Context, resume *models.ResumeInput, profile *models.JobProfile) (map[string]interface{}, error)
}

type ScorerConfig struct {
	AttemptTimeout    time.Duration
	RequestsPerMinute int
	ExcerptMaxChars   int
}

type modelScoringClient struct {
	generator      Generator
	promptBuilder  *PromptBuilder
	excerpts       *ExcerptBuilder
	policy         RetryPolicy
	limiter        *rate.Limiter
	attemptTimeout time.Duration
	logger         *zap.Logger
}

func NewModelScoringClient(generator Generator, cfg ScorerConfig, log *zap.Logger) ModelScoringClient {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 90 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &modelScoringClient{
		generator:      generator,
		promptBuilder:  NewPromptBuilder(),
		excerpts:       NewExcerptBuilder(cfg.ExcerptMaxChars),
		policy:         RetryPolicy{MaxAttempts: scoringMaxAttempts},
		limiter:        limiter,
		attemptTimeout: cfg.AttemptTimeout,
		logger: log.With(
			zap.String("ai_provider", generator.Provider()),
			zap.String("ai_model", generator.Model()),
		),
	}
}

func (c *modelScoringClient) Score(ctx context.Context, resume *models.ResumeInput, profile *models.JobProfile) (map[string]interface{}, error) {
	prompt := c.promptBuilder.BuildScoringPrompt(ScoringPromptInput{
		JobDescription: profile.Description,
		ResumeExcerpt:  c.excerpts.Build(resume.CleanedText),
		RawPayload:     resume.RawPayload,
		MustHave:       profile.MustHaveSkills,
		NiceToHave:     profile.NiceToHaveSkills,
		DomainTerms:    profile.DomainKeywords,
	})
	log := c.logger.With(zap.String("filename", resume.Filename))

	return c.policy.Run(ctx, func(ctx context.Context, n int) (map[string]interface{}, error) {
		req := GenerateRequest{
			System: []string{systemInstruction},
			Prompt: prompt,
		}
		if n > 1 {
			req.System = append(req.System, strictJSONReminder)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			ModelAttempts.WithLabelValues("transport_error").Inc()
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()

		start := time.Now()
		raw, err := c.generator.Generate(attemptCtx, req)
		if err != nil {
			ModelAttempts.WithLabelValues("transport_error").Inc()
			log.Warn("model call failed", zap.Int("attempt", n), zap.Error(err))
			return nil, err
		}

		payload, err := ParseModelResponse(raw)
		if err != nil {
			ModelAttempts.WithLabelValues("parse_error").Inc()
			log.Warn("model response not parseable",
				zap.Int("attempt", n),
				zap.String("response_preview", logger.TruncateForLog(raw, 300)),
				zap.Error(err),
			)
			return nil, err
		}

		ModelAttempts.WithLabelValues("ok").Inc()
		log.Debug("model response parsed", zap.Int("attempt", n), zap.Duration("latency", time.Since(start)))
		return payload, nil
	})
}
