package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLedgerJanitorPurgesExpiredEntries(t *testing.T) {
	ledger := NewMemoryLedger(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, ledger.Start(ctx, "job-1", 1))

	janitor := NewLedgerJanitor(ledger, 10*time.Millisecond, zap.NewNop())
	janitor.Start(ctx)
	defer janitor.Stop()

	assert.Eventually(t, func() bool {
		ledger.mu.Lock()
		defer ledger.mu.Unlock()
		return len(ledger.entries) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestLedgerJanitorStopIsIdempotent(t *testing.T) {
	janitor := NewLedgerJanitor(NewMemoryLedger(time.Minute), time.Hour, nil)
	janitor.Start(context.Background())

	janitor.Stop()
	assert.NotPanics(t, janitor.Stop)
}
