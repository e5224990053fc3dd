package models

import "time"

type JobStatus string

const (
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// AnalysisJob is the progress ledger entry for one batch.
type AnalysisJob struct {
	JobToken        string    `json:"job_token"`
	CurrentFilename string    `json:"current_filename"`
	Processed       int       `json:"processed_count"`
	Total           int       `json:"total_count"`
	Done            bool      `json:"done"`
	Status          JobStatus `json:"status"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (j *AnalysisJob) Terminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusError
}

// Expired reports whether the entry has outlived the retention window.
func (j *AnalysisJob) Expired(now time.Time, retention time.Duration) bool {
	return now.Sub(j.UpdatedAt) > retention
}
