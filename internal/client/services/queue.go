package services

import (
	"context"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/gateway"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/repositories/queue"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

// QueueService drains the durable offline queue. Enqueue always succeeds;
// drain is triggered by the online-status watcher when connectivity
// returns and replays front-to-back, stopping at the first failure so
// order is preserved. An item is deleted only after the server confirms
// persistence, which makes delivery at-least-once: a crash between the
// two steps duplicates the submission on the next drain.
type QueueService struct {
	repo   queue.Repository
	gw     gateway.Gateway
	logger logging.Logger
}

func NewQueueService(repo queue.Repository, gw gateway.Gateway, logger logging.Logger) *QueueService {
	return &QueueService{repo: repo, gw: gw, logger: logger.With("module", "queue")}
}

func (s *QueueService) Enqueue(ctx context.Context, payload api.CreateRequestPayload) error {
	return s.repo.Enqueue(ctx, payload)
}

func (s *QueueService) Len(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Drain replays queued submissions in order. Returns how many were
// persisted; the error, if any, is the failure that stopped the drain.
// Items behind a failed one stay queued for the next attempt.
func (s *QueueService) Drain(ctx context.Context) (int, error) {
	items, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load queue: %w", err)
	}

	drained := 0
	for _, item := range items {
		if _, err := s.gw.CreateRequest(ctx, item.Payload); err != nil {
			s.logger.Warn(ctx, "drain stopped", "seq", item.Seq, "drained", drained, "error", err)
			return drained, err
		}
		if err := s.repo.Delete(ctx, item.Seq); err != nil {
			return drained, fmt.Errorf("failed to remove drained item %d: %w", item.Seq, err)
		}
		drained++
	}

	if drained > 0 {
		s.logger.Info(ctx, "queue drained", "count", drained)
	}
	return drained, nil
}
