package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func setupRedis(t *testing.T, retention time.Duration) (*RedisLedger, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLedger(client, "test:job:", retention), mr
}

func TestRedisLedgerLifecycle(t *testing.T) {
	ledger, mr := setupRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Ping(ctx))
	require.NoError(t, ledger.Start(ctx, "job-1", 2))
	assert.True(t, mr.Exists("test:job:job-1"))

	require.NoError(t, ledger.Update(ctx, "job-1", "a.pdf", 1))
	job, ok, err := ledger.Get(ctx, "job-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, job.Processed)
	assert.Equal(t, "a.pdf", job.CurrentFilename)

	require.NoError(t, ledger.Complete(ctx, "job-1"))
	job, _, _ = ledger.Get(ctx, "job-1")
	assert.True(t, job.Done)
	assert.Equal(t, 2, job.Processed)
	assert.Equal(t, models.JobStatusDone, job.Status)

	assert.ErrorIs(t, ledger.Update(ctx, "job-1", "b.pdf", 1), ErrJobClosed)
}

func TestRedisLedgerRejectsLiveToken(t *testing.T) {
	ledger, mr := setupRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Start(ctx, "job-1", 2))
	assert.ErrorIs(t, ledger.Start(ctx, "job-1", 2), ErrJobInProgress)

	require.NoError(t, ledger.Fail(ctx, "job-1", "boom"))
	assert.ErrorIs(t, ledger.Start(ctx, "job-1", 3), ErrJobInProgress)

	job, ok, err := ledger.Get(ctx, "job-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.JobStatusError, job.Status)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, ledger.Start(ctx, "job-1", 3))
}

func TestRedisLedgerExpiresWithTTL(t *testing.T) {
	ledger, mr := setupRedis(t, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Start(ctx, "job-42", 1))
	require.NoError(t, ledger.Complete(ctx, "job-42"))

	mr.FastForward(10 * time.Minute)

	_, ok, err := ledger.Get(ctx, "job-42")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, ledger.Update(ctx, "job-42", "a.pdf", 1), ErrJobNotFound)
}

func TestRedisLedgerWritesRefreshTTL(t *testing.T) {
	ledger, mr := setupRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, ledger.Start(ctx, "job-1", 5))
	mr.FastForward(50 * time.Second)
	require.NoError(t, ledger.Update(ctx, "job-1", "a.pdf", 1))
	mr.FastForward(50 * time.Second)

	_, ok, _ := ledger.Get(ctx, "job-1")
	assert.True(t, ok)
}

func TestRedisLedgerConcurrentUpdates(t *testing.T) {
	ledger, _ := setupRedis(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, ledger.Start(ctx, "job-1", 100))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, ledger.Update(ctx, "job-1", "a.pdf", 1))
			}
		}()
	}
	wg.Wait()

	job, ok, err := ledger.Get(ctx, "job-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20, job.Processed)
}

func TestRedisLedgerPurgeIsNoop(t *testing.T) {
	ledger, _ := setupRedis(t, time.Minute)
	removed, err := ledger.Purge(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
