package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appshipping "github.com/omnia/backend/internal/application/shipping"
	"github.com/omnia/backend/internal/domain/shipping"
)

// SyncRunner runs one full shipment sync pass.
type SyncRunner interface {
	Run(ctx context.Context, filter shipping.ActiveShipmentFilter) (*appshipping.SyncSummary, error)
}

// ShipmentSyncSchedulerConfig holds configuration for the sync scheduler
type ShipmentSyncSchedulerConfig struct {
	// Interval is the pause between sync passes
	Interval time.Duration
	// RunTimeout bounds one pass; a stuck vendor cannot wedge the loop
	RunTimeout time.Duration
	// RunOnStart triggers a pass immediately instead of waiting a full interval
	RunOnStart bool
}

// DefaultShipmentSyncSchedulerConfig returns default scheduler configuration
func DefaultShipmentSyncSchedulerConfig() ShipmentSyncSchedulerConfig {
	return ShipmentSyncSchedulerConfig{
		Interval:   30 * time.Minute,
		RunTimeout: 20 * time.Minute,
		RunOnStart: false,
	}
}

// ShipmentSyncScheduler runs the sync pipeline on a fixed interval. Passes
// never overlap; the next tick waits for the previous pass to return.
type ShipmentSyncScheduler struct {
	config ShipmentSyncSchedulerConfig
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewShipmentSyncScheduler creates a new ShipmentSyncScheduler
func NewShipmentSyncScheduler(
	config ShipmentSyncSchedulerConfig,
	runner SyncRunner,
	logger *zap.Logger,
) *ShipmentSyncScheduler {
	return &ShipmentSyncScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the scheduler loop
func (s *ShipmentSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Shipment sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("run_timeout", s.config.RunTimeout),
	)
	return nil
}

// Stop stops the scheduler and waits for an in-flight pass to finish
func (s *ShipmentSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Shipment sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop ticks at the configured interval until the context is cancelled
func (s *ShipmentSyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one bounded sync pass covering all users
func (s *ShipmentSyncScheduler) runOnce(ctx context.Context) {
	runCtx := ctx
	var cancel context.CancelFunc
	if s.config.RunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	started := time.Now()
	summary, err := s.runner.Run(runCtx, shipping.ActiveShipmentFilter{})
	if err != nil {
		s.logger.Error("Scheduled shipment sync failed",
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled shipment sync finished",
		zap.Int("synced", summary.Synced),
		zap.Int("errors", len(summary.Errors)),
		zap.Duration("elapsed", time.Since(started)),
	)
}
