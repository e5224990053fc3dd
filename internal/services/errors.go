package services

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound covers both never-created and expired ledger entries.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobInProgress is returned when a token with a live entry is reused.
	ErrJobInProgress = errors.New("job token already in use")
	// ErrJobClosed is returned when a terminal job is mutated.
	ErrJobClosed = errors.New("job already finished")

	ErrJobDescriptionUnreadable = errors.New("job description could not be read")
	ErrNoResumes                = errors.New("at least one resume is required")
)

type ErrorCode string

const (
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeJobTokenInUse          ErrorCode = "JOB_TOKEN_IN_USE"
	ErrCodeJobDescriptionFailed   ErrorCode = "JOB_DESCRIPTION_UNREADABLE"
	ErrCodeStagingFailed          ErrorCode = "STAGING_FAILED"
	ErrCodeLedgerFailed           ErrorCode = "LEDGER_FAILED"
	ErrCodeResumeProcessingFailed ErrorCode = "RESUME_PROCESSING_FAILED"
)

// BatchError aborts a whole analysis request.
type BatchError struct {
	Code     ErrorCode
	JobToken string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

type FailureKind string

const (
	FailureParse     FailureKind = "parse"
	FailureTransport FailureKind = "transport"
)

// ScoringError is a terminal model call failure for a single resume.
type ScoringError struct {
	Kind     FailureKind
	Attempts int
	Err      error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("%s failure after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// ParseError marks a model response that did not match the expected structure.
// It is the only failure the retry policy will retry.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "unparseable model response: " + e.Reason
}
