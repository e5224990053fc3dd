package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker runs a background loop until Stop is called.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

type ledgerJanitor struct {
	ledger   ProgressLedger
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewLedgerJanitor purges expired progress entries on a fixed interval, so
// entries nobody polls again still leave memory.
func NewLedgerJanitor(ledger ProgressLedger, interval time.Duration, log *zap.Logger) Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ledgerJanitor{
		ledger:   ledger,
		interval: interval,
		now:      time.Now,
		logger:   log,
		stopChan: make(chan struct{}),
	}
}

// Start implements Worker.
func (w *ledgerJanitor) Start(ctx context.Context) {
	w.logger.Info("starting ledger janitor", zap.Duration("interval", w.interval))

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop implements Worker.
func (w *ledgerJanitor) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("ledger janitor stopped")
}

func (w *ledgerJanitor) run(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ledgerJanitor) sweep(ctx context.Context) {
	removed, err := w.ledger.Purge(ctx, w.now())
	if err != nil {
		w.logger.Warn("ledger purge failed", zap.Error(err))
		return
	}
	if removed > 0 {
		w.logger.Debug("purged expired jobs", zap.Int("count", removed))
	}
}
