package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	// extractionPlaceholder stands in for resume text that could not be
	// extracted. It must not mention any skill, so the keyword scan finds nothing.
	extractionPlaceholder = "[Text extraction returned no content. The original document is attached as a base64 payload.]"

	DefaultDuplicatePenalty   = 10
	DefaultMaxRawPayloadBytes = 2 << 20
	minDuplicateScore         = 1
)

type AnalyzeRequest struct {
	JobDescription models.Upload
	Resumes        []models.Upload
	// JobToken is optional; one is generated when empty.
	JobToken string
}

type OrchestratorConfig struct {
	DuplicatePenalty   int
	MaxRawPayloadBytes int64
}

// BatchOrchestrator runs one analysis request end to end. Resumes are scored
// one at a time in upload order.
type BatchOrchestrator interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisReport, error)
}

type batchOrchestrator struct {
	ledger    ProgressLedger
	storage   StorageService
	extractor TextExtractor
	skills    *SkillExtractor
	scorer    ModelScoringClient
	guardrail *ScoreGuardrail
	cfg       OrchestratorConfig
	logger    *zap.Logger
}

func NewBatchOrchestrator(
	ledger ProgressLedger,
	storage StorageService,
	extractor TextExtractor,
	skills *SkillExtractor,
	scorer ModelScoringClient,
	guardrail *ScoreGuardrail,
	cfg OrchestratorConfig,
	log *zap.Logger,
) BatchOrchestrator {
	if cfg.DuplicatePenalty < 0 {
		cfg.DuplicatePenalty = DefaultDuplicatePenalty
	}
	if cfg.MaxRawPayloadBytes == 0 {
		cfg.MaxRawPayloadBytes = DefaultMaxRawPayloadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &batchOrchestrator{
		ledger:    ledger,
		storage:   storage,
		extractor: extractor,
		skills:    skills,
		scorer:    scorer,
		guardrail: guardrail,
		cfg:       cfg,
		logger:    log,
	}
}

// duplicateCache maps a fingerprint to the first result scored for it. It
// lives for one batch only.
type duplicateCache map[string]models.ScoreResult

func (o *batchOrchestrator) Analyze(ctx context.Context, req AnalyzeRequest) (report *models.AnalysisReport, err error) {
	jobToken := strings.TrimSpace(req.JobToken)
	if jobToken == "" {
		jobToken = uuid.NewString()
	}
	log := o.logger.With(logger.JobFields(jobToken, "")...)

	if len(req.Resumes) == 0 {
		return nil, &BatchError{Code: ErrCodeInvalidInput, JobToken: jobToken, Err: ErrNoResumes}
	}

	if err := o.ledger.Start(ctx, jobToken, len(req.Resumes)); err != nil {
		if errors.Is(err, ErrJobInProgress) {
			return nil, &BatchError{Code: ErrCodeJobTokenInUse, JobToken: jobToken, Err: err}
		}
		return nil, &BatchError{Code: ErrCodeLedgerFailed, JobToken: jobToken, Err: err}
	}

	started := time.Now()
	log.Info("analysis started", zap.Int("resumes", len(req.Resumes)))

	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = o.abort(ctx, log, jobToken, ErrCodeResumeProcessingFailed, fmt.Errorf("unexpected failure: %v", r))
		}

		BatchDuration.Observe(time.Since(started).Seconds())
		if err != nil {
			BatchesTotal.WithLabelValues("error").Inc()
			return
		}
		BatchesTotal.WithLabelValues("done").Inc()
		log.Info("analysis finished", zap.Duration("elapsed", time.Since(started)))
	}()

	batchDir, err := o.storage.CreateBatchDir(jobToken)
	if err != nil {
		return nil, o.abort(ctx, log, jobToken, ErrCodeStagingFailed, err)
	}
	defer func() {
		if rmErr := o.storage.RemoveBatchDir(batchDir); rmErr != nil {
			log.Warn("failed to remove batch directory", zap.Error(rmErr))
		}
	}()

	jdText, err := o.readJobDescription(batchDir, req.JobDescription)
	if err != nil {
		code := ErrCodeJobDescriptionFailed
		if !errors.Is(err, ErrJobDescriptionUnreadable) {
			code = ErrCodeStagingFailed
		}
		return nil, o.abort(ctx, log, jobToken, code, err)
	}

	profile := o.skills.Summarize(jdText)
	sections := SplitSections(jdText)
	log.Info("job description summarized",
		zap.Strings("must_have", profile.MustHaveSkills),
		zap.Strings("nice_to_have", profile.NiceToHaveSkills),
	)

	cache := make(duplicateCache)
	results := make([]models.ScoreResult, 0, len(req.Resumes))

	for i, upload := range req.Resumes {
		delta := 0
		if i > 0 {
			delta = 1
		}
		if err := o.ledger.Update(ctx, jobToken, upload.Filename, delta); err != nil && !entryExpired(log, err) {
			return nil, o.abort(ctx, log, jobToken, ErrCodeLedgerFailed, err)
		}

		result, err := o.processResume(ctx, batchDir, upload, &profile, cache)
		if err != nil {
			return nil, o.abort(ctx, log, jobToken, ErrCodeResumeProcessingFailed,
				fmt.Errorf("%s: %w", upload.Filename, err))
		}
		results = append(results, result)
		ResumesScored.WithLabelValues(string(result.Engine)).Inc()
	}

	RankResults(results)

	if err := o.ledger.Complete(ctx, jobToken); err != nil && !entryExpired(log, err) {
		return nil, o.abort(ctx, log, jobToken, ErrCodeLedgerFailed, err)
	}

	return &models.AnalysisReport{
		JobToken:               jobToken,
		Results:                results,
		JobProfile:             profile,
		JobDescriptionSections: sections,
	}, nil
}

func (o *batchOrchestrator) readJobDescription(batchDir string, upload models.Upload) (string, error) {
	path, err := o.storage.SaveUpload(batchDir, upload, "jd")
	if err != nil {
		return "", err
	}
	text := CleanText(o.extractor.ExtractText(path))
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrJobDescriptionUnreadable, upload.Filename)
	}
	return text, nil
}

// processResume returns an error only for failures outside the model call;
// model failures come back as a failed result.
func (o *batchOrchestrator) processResume(
	ctx context.Context,
	batchDir string,
	upload models.Upload,
	profile *models.JobProfile,
	cache duplicateCache,
) (models.ScoreResult, error) {
	log := o.logger.With(zap.String("filename", upload.Filename))

	path, err := o.storage.SaveUpload(batchDir, upload, "resume")
	if err != nil {
		return models.ScoreResult{}, err
	}

	raw := o.extractor.ExtractText(path)
	input := &models.ResumeInput{
		Filename:    upload.Filename,
		StagedPath:  path,
		RawText:     raw,
		CleanedText: CleanText(raw),
	}
	input.Fingerprint = Fingerprint(input.CleanedText)

	if input.CleanedText == "" {
		input.CleanedText = extractionPlaceholder
		if size := int64(len(upload.Data)); size <= o.cfg.MaxRawPayloadBytes {
			input.RawPayload = upload.Data
		} else {
			log.Warn("raw document too large to forward",
				zap.Int64("size", size),
				zap.Int64("limit", o.cfg.MaxRawPayloadBytes),
			)
		}
		log.Info("extraction returned no text, using placeholder",
			zap.Bool("raw_payload_attached", input.RawPayload != nil),
		)
	}

	if original, ok := cache[input.Fingerprint]; ok {
		log.Info("duplicate resume detected", zap.String("duplicate_of", original.Filename))
		return o.duplicateOf(original, upload.Filename), nil
	}

	var result models.ScoreResult
	payload, err := o.scorer.Score(ctx, input, profile)
	if err != nil {
		log.Warn("resume scoring failed", zap.Error(err))
		result = failedResult(upload.Filename, err)
	} else {
		score, details := o.guardrail.Reconcile(payload, input.CleanedText, profile)
		result = models.ScoreResult{
			Filename:   upload.Filename,
			FinalScore: score,
			Engine:     models.EngineNormal,
			Details:    details,
		}
	}

	cache[input.Fingerprint] = result
	return result, nil
}

func (o *batchOrchestrator) duplicateOf(original models.ScoreResult, filename string) models.ScoreResult {
	score := original.FinalScore - o.cfg.DuplicatePenalty
	if score < minDuplicateScore {
		score = minDuplicateScore
	}

	details := original.Details.Clone()
	reason := fmt.Sprintf("Duplicate of %s", original.Filename)
	details.ScoreBreakdown.Penalties = append(details.ScoreBreakdown.Penalties, reason)
	details.ScoreBreakdown.Adjustments = append(details.ScoreBreakdown.Adjustments, models.Adjustment{
		Rule:   RuleDuplicate,
		Reason: reason,
		Before: original.FinalScore,
		After:  score,
	})

	return models.ScoreResult{
		Filename:    filename,
		FinalScore:  score,
		Engine:      models.EngineDuplicate,
		DuplicateOf: original.Filename,
		Details:     details,
	}
}

func failedResult(filename string, err error) models.ScoreResult {
	details := models.NewScoreDetails(0)
	details.AISummary = fmt.Sprintf("AI analysis could not be completed: %v", err)
	details.AIAssessment.AISummary = details.AISummary

	return models.ScoreResult{
		Filename:   filename,
		FinalScore: 0,
		Engine:     models.EngineFailed,
		Details:    details,
	}
}

// entryExpired reports whether err only means the progress entry outlived its
// retention window. The batch keeps going; pollers see the token as absent.
func entryExpired(log *zap.Logger, err error) bool {
	if !errors.Is(err, ErrJobNotFound) {
		return false
	}
	log.Warn("progress entry expired during analysis, continuing without it")
	return true
}

// abort records the failure on the ledger and wraps it for the caller.
func (o *batchOrchestrator) abort(ctx context.Context, log *zap.Logger, jobToken string, code ErrorCode, cause error) error {
	log.Error("analysis aborted", zap.String("code", string(code)), zap.Error(cause))
	if err := o.ledger.Fail(ctx, jobToken, cause.Error()); err != nil {
		log.Warn("failed to record error on ledger", zap.Error(err))
	}
	return &BatchError{Code: code, JobToken: jobToken, Err: cause}
}

// RankResults orders results by descending score, keeping upload order for
// ties, and assigns ranks starting at 1.
func RankResults(results []models.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}
