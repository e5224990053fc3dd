package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/models"
)

const maxLedgerTxRetries = 50

// RedisLedger keeps progress entries in Redis so several API replicas can
// answer progress polls. Retention is enforced with key TTLs that are reset on
// every write.
type RedisLedger struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func NewRedisLedger(client *redis.Client, prefix string, retention time.Duration) *RedisLedger {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisLedger{
		client:    client,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

func (l *RedisLedger) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (l *RedisLedger) Start(ctx context.Context, jobToken string, total int) error {
	return l.transact(ctx, jobToken, func(job *models.AnalysisJob, now time.Time) (*models.AnalysisJob, error) {
		if job != nil {
			return nil, ErrJobInProgress
		}
		return &models.AnalysisJob{
			JobToken:  jobToken,
			Total:     total,
			Status:    models.JobStatusRunning,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	})
}

func (l *RedisLedger) Update(ctx context.Context, jobToken, currentFilename string, processedDelta int) error {
	return l.mutate(ctx, jobToken, func(job *models.AnalysisJob) {
		applyUpdate(job, currentFilename, processedDelta)
	})
}

func (l *RedisLedger) Complete(ctx context.Context, jobToken string) error {
	return l.mutate(ctx, jobToken, applyComplete)
}

func (l *RedisLedger) Fail(ctx context.Context, jobToken, reason string) error {
	return l.mutate(ctx, jobToken, func(job *models.AnalysisJob) {
		applyFail(job, reason)
	})
}

func (l *RedisLedger) Get(ctx context.Context, jobToken string) (*models.AnalysisJob, bool, error) {
	raw, err := l.client.Get(ctx, l.key(jobToken)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read job %s: %w", jobToken, err)
	}

	var job models.AnalysisJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, false, fmt.Errorf("failed to decode job %s: %w", jobToken, err)
	}
	return &job, true, nil
}

// Purge is a no-op: Redis drops expired keys on its own.
func (l *RedisLedger) Purge(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

func (l *RedisLedger) key(jobToken string) string {
	return l.prefix + jobToken
}

func (l *RedisLedger) mutate(ctx context.Context, jobToken string, fn func(job *models.AnalysisJob)) error {
	return l.transact(ctx, jobToken, func(job *models.AnalysisJob, now time.Time) (*models.AnalysisJob, error) {
		if job == nil {
			return nil, ErrJobNotFound
		}
		if job.Terminal() {
			return nil, ErrJobClosed
		}
		fn(job)
		job.UpdatedAt = now
		return job, nil
	})
}

// transact runs fn inside WATCH/MULTI/EXEC and retries when another writer
// touched the key in between.
func (l *RedisLedger) transact(
	ctx context.Context,
	jobToken string,
	fn func(job *models.AnalysisJob, now time.Time) (*models.AnalysisJob, error),
) error {
	key := l.key(jobToken)

	txf := func(tx *redis.Tx) error {
		var current *models.AnalysisJob
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			current = &models.AnalysisJob{}
			if err := json.Unmarshal(raw, current); err != nil {
				return fmt.Errorf("failed to decode job %s: %w", jobToken, err)
			}
		}

		next, err := fn(current, l.now())
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, l.retention)
			return nil
		})
		return err
	}

	for i := 0; i < maxLedgerTxRetries; i++ {
		err := l.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("job %s: too many concurrent ledger writes", jobToken)
}
