package scheduler

import (
	"context"
	"sync"
	"time"

	productUsecases "vechnost/internal/application/product/usecases"
	"vechnost/internal/shared/goroutine"
	"vechnost/internal/shared/logger"
)

// ProductSyncScheduler periodically refreshes the local product catalog
// from the provider so purchase flows keep working during provider
// outages.
type ProductSyncScheduler struct {
	syncProductsUC *productUsecases.SyncProductsUseCase
	logger         logger.Interface
	stopChan       chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	interval       time.Duration
}

func NewProductSyncScheduler(
	syncProductsUC *productUsecases.SyncProductsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *ProductSyncScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ProductSyncScheduler{
		syncProductsUC: syncProductsUC,
		logger:         logger,
		stopChan:       make(chan struct{}),
		interval:       interval,
	}
}

// Start launches the sync loop. It returns immediately; the loop runs
// until Stop is called or the context is cancelled.
func (s *ProductSyncScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting product sync scheduler", "interval", s.interval)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "product-sync-scheduler", func() {
		defer s.wg.Done()
		s.runSyncLoop(ctx)
	})
}

// Stop stops the scheduler gracefully. Safe to call multiple times.
func (s *ProductSyncScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping product sync scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("product sync scheduler stopped")
	})
}

func (s *ProductSyncScheduler) runSyncLoop(ctx context.Context) {
	// Sync immediately on startup so a fresh deployment has a catalog.
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("product sync scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *ProductSyncScheduler) syncOnce(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	result, err := s.syncProductsUC.Execute(syncCtx)
	if err != nil {
		// Transient provider failures are expected; the next tick retries.
		s.logger.Warnw("product sync failed", "error", err)
		return
	}
	s.logger.Infow("product sync completed", "synced", result.Synced)
}
