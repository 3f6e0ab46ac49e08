package usecase

import (
	"context"
	"time"

	"chatz/pkg/logger"
)

type cleaner interface {
	CleanupExpired(ctx context.Context) int
}

// Sweeper removes expired encrypted messages on a fixed interval.
type Sweeper struct {
	target   cleaner
	interval time.Duration
	logger   logger.Logger
}

func NewSweeper(target cleaner, interval time.Duration, logger logger.Logger) *Sweeper {
	return &Sweeper{target: target, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.target.CleanupExpired(ctx)
		}
	}
}
