package services

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/resume-ranker/internal/models"
)

const DefaultRetention = 5 * time.Minute

// ProgressLedger tracks per-job progress for polling clients. Entries expire
// once their last update is older than the retention window; an expired token
// and a token that never existed both read as absent.
type ProgressLedger interface {
	Start(ctx context.Context, jobToken string, total int) error
	Update(ctx context.Context, jobToken, currentFilename string, processedDelta int) error
	Complete(ctx context.Context, jobToken string) error
	Fail(ctx context.Context, jobToken, reason string) error
	Get(ctx context.Context, jobToken string) (*models.AnalysisJob, bool, error)
	Purge(ctx context.Context, now time.Time) (int, error)
}

// MemoryLedger is a process-local ProgressLedger guarded by a single mutex.
type MemoryLedger struct {
	mu        sync.Mutex
	entries   map[string]*models.AnalysisJob
	retention time.Duration
	now       func() time.Time
}

func NewMemoryLedger(retention time.Duration) *MemoryLedger {
	return NewMemoryLedgerWithClock(retention, time.Now)
}

func NewMemoryLedgerWithClock(retention time.Duration, now func() time.Time) *MemoryLedger {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryLedger{
		entries:   make(map[string]*models.AnalysisJob),
		retention: retention,
		now:       now,
	}
}

// Start registers the job. A token cannot be reused until its entry, running
// or finished, has expired.
func (l *MemoryLedger) Start(ctx context.Context, jobToken string, total int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purgeLocked(now)
	if _, ok := l.entries[jobToken]; ok {
		return ErrJobInProgress
	}

	l.entries[jobToken] = &models.AnalysisJob{
		JobToken:  jobToken,
		Total:     total,
		Status:    models.JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (l *MemoryLedger) Update(ctx context.Context, jobToken, currentFilename string, processedDelta int) error {
	return l.mutate(jobToken, func(job *models.AnalysisJob) {
		applyUpdate(job, currentFilename, processedDelta)
	})
}

func (l *MemoryLedger) Complete(ctx context.Context, jobToken string) error {
	return l.mutate(jobToken, applyComplete)
}

func (l *MemoryLedger) Fail(ctx context.Context, jobToken, reason string) error {
	return l.mutate(jobToken, func(job *models.AnalysisJob) {
		applyFail(job, reason)
	})
}

// Get returns a copy of the entry. Expired entries are purged first.
func (l *MemoryLedger) Get(ctx context.Context, jobToken string) (*models.AnalysisJob, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purgeLocked(now)

	job, ok := l.entries[jobToken]
	if !ok {
		return nil, false, nil
	}
	snapshot := *job
	return &snapshot, true, nil
}

func (l *MemoryLedger) Purge(ctx context.Context, now time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.purgeLocked(now), nil
}

func (l *MemoryLedger) purgeLocked(now time.Time) int {
	removed := 0
	for token, job := range l.entries {
		if job.Expired(now, l.retention) {
			delete(l.entries, token)
			removed++
		}
	}
	if removed > 0 {
		LedgerPurged.Add(float64(removed))
	}
	return removed
}

func (l *MemoryLedger) live(jobToken string, now time.Time) (*models.AnalysisJob, bool) {
	job, ok := l.entries[jobToken]
	if !ok {
		return nil, false
	}
	if job.Expired(now, l.retention) {
		delete(l.entries, jobToken)
		return nil, false
	}
	return job, true
}

func (l *MemoryLedger) mutate(jobToken string, fn func(job *models.AnalysisJob)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	job, ok := l.live(jobToken, now)
	if !ok {
		return ErrJobNotFound
	}
	if job.Terminal() {
		return ErrJobClosed
	}

	fn(job)
	job.UpdatedAt = now
	return nil
}

// applyUpdate keeps processed monotonic and below total, so processed reaches
// total only through applyComplete.
func applyUpdate(job *models.AnalysisJob, currentFilename string, processedDelta int) {
	if currentFilename != "" {
		job.CurrentFilename = currentFilename
	}
	if processedDelta > 0 {
		job.Processed += processedDelta
	}
	if limit := job.Total - 1; job.Total > 0 && job.Processed > limit {
		job.Processed = limit
	}
}

func applyComplete(job *models.AnalysisJob) {
	job.Processed = job.Total
	job.Done = true
	job.Status = models.JobStatusDone
	job.CurrentFilename = ""
}

func applyFail(job *models.AnalysisJob, reason string) {
	job.Status = models.JobStatusError
	job.Error = reason
	job.Done = false
}
