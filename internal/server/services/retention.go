package services

import (
	"context"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/requests"
)

// RetentionSweeper periodically deletes visitor requests older than the
// retention window, regardless of status. Every read/update path tolerates
// a row vanishing between fetch and action, so the sweep needs no
// coordination with live traffic.
type RetentionSweeper struct {
	requests requests.Repository
	logger   logging.Logger
	interval time.Duration
}

func NewRetentionSweeper(rr requests.Repository, logger logging.Logger, interval time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		requests: rr,
		logger:   logger.With("module", "retention"),
		interval: interval,
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *RetentionSweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -common.RetentionDays)

	deleted, err := s.requests.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error(ctx, "retention sweep failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info(ctx, "retention sweep", "deleted", deleted, "cutoff", cutoff)
	}
}
