package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically evicts idle sessions. It is the process's only
// long-lived background activity and communicates solely through the
// shared store.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a sweeper that runs EvictIdle(timeout) every
// interval.
func NewSweeper(manager *Manager, interval, timeout time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{manager: manager, interval: interval, timeout: timeout, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping on each tick. A
// cancellation mid-cycle simply leaves not-yet-visited idle sessions
// for the next process; the store is never left inconsistent.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started",
		zap.Duration("interval", s.interval), zap.Duration("timeout", s.timeout))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.manager.EvictIdle(s.timeout)
		}
	}
}
