package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/models"
)

func newTestScorer(gen Generator) ModelScoringClient {
	return NewModelScoringClient(gen, ScorerConfig{AttemptTimeout: time.Second}, zap.NewNop())
}

func testProfile() *models.JobProfile {
	return &models.JobProfile{
		MustHaveSkills:   []string{"Python", "API design"},
		NiceToHaveSkills: []string{"Docker"},
		Description:      "Backend engineer",
	}
}

func TestRetryPolicyStopsOnTransportError(t *testing.T) {
	calls := 0
	_, err := RetryPolicy{MaxAttempts: 2}.Run(context.Background(), func(ctx context.Context, n int) (map[string]interface{}, error) {
		calls++
		return nil, errors.New("401 unauthorized")
	})

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, FailureTransport, scoringErr.Kind)
	assert.Equal(t, 1, scoringErr.Attempts)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyRetriesParseErrorOnce(t *testing.T) {
	var seen []int
	_, err := RetryPolicy{MaxAttempts: 2}.Run(context.Background(), func(ctx context.Context, n int) (map[string]interface{}, error) {
		seen = append(seen, n)
		return nil, &ParseError{Reason: "prose"}
	})

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, FailureParse, scoringErr.Kind)
	assert.Equal(t, 2, scoringErr.Attempts)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestScoreSucceedsAfterReminder(t *testing.T) {
	gen := (&stubGenerator{}).
		enqueue("I think this candidate is great.", nil).
		enqueue(`{"final_score": 64, "details": {}}`, nil)

	payload, err := newTestScorer(gen).Score(context.Background(), &models.ResumeInput{Filename: "a.pdf", CleanedText: "Python"}, testProfile())

	require.NoError(t, err)
	assert.Equal(t, float64(64), payload["final_score"])
	require.Equal(t, 2, gen.calls())
	assert.Equal(t, []string{systemInstruction}, gen.requests[0].System)
	assert.Equal(t, []string{systemInstruction, strictJSONReminder}, gen.requests[1].System)
	assert.Equal(t, gen.requests[0].Prompt, gen.requests[1].Prompt)
}

func TestScoreFailsAfterTwoUnparseableAnswers(t *testing.T) {
	gen := (&stubGenerator{}).
		enqueue("prose one", nil).
		enqueue("prose two", nil).
		enqueue(`{"final_score": 99}`, nil)

	_, err := newTestScorer(gen).Score(context.Background(), &models.ResumeInput{Filename: "e.pdf"}, testProfile())

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, FailureParse, scoringErr.Kind)
	assert.Equal(t, 2, gen.calls())
}

func TestScoreTransportFailureIsNotRetried(t *testing.T) {
	gen := (&stubGenerator{}).enqueue("", errors.New("connection reset"))

	_, err := newTestScorer(gen).Score(context.Background(), &models.ResumeInput{Filename: "a.pdf"}, testProfile())

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, FailureTransport, scoringErr.Kind)
	assert.Equal(t, 1, gen.calls())
}

func TestScoreAttemptTimeout(t *testing.T) {
	scorer := NewModelScoringClient(blockingGenerator{}, ScorerConfig{AttemptTimeout: 20 * time.Millisecond}, zap.NewNop())

	_, err := scorer.Score(context.Background(), &models.ResumeInput{Filename: "slow.pdf"}, testProfile())

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScoreForwardsRawPayload(t *testing.T) {
	gen := (&stubGenerator{}).enqueue(`{"final_score": 10}`, nil)
	raw := []byte("%PDF scanned image")

	_, err := newTestScorer(gen).Score(context.Background(), &models.ResumeInput{
		Filename:    "d.pdf",
		CleanedText: extractionPlaceholder,
		RawPayload:  raw,
	}, testProfile())

	require.NoError(t, err)
	assert.Contains(t, gen.requests[0].Prompt, base64.StdEncoding.EncodeToString(raw))
	assert.Contains(t, gen.requests[0].Prompt, "Must-have focus areas: Python, API design")
}
