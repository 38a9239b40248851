// Package events publishes visitor request change notifications to the
// Redis channel consumed by connected stations.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

// Publisher fans change events out over Redis pub/sub. Publishing is
// best-effort: the row is already persisted when an event goes out, and a
// station that misses one recovers on its next full re-fetch, so publish
// failures are logged rather than propagated.
type Publisher struct {
	rdb    *redis.Client
	logger logging.Logger
}

func NewPublisher(rdb *redis.Client, logger logging.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger.With("module", "events")}
}

func (p *Publisher) RequestInserted(ctx context.Context, record api.VisitorRequest) {
	p.publish(ctx, api.EventInsert, record)
}

func (p *Publisher) RequestUpdated(ctx context.Context, record api.VisitorRequest) {
	p.publish(ctx, api.EventUpdate, record)
}

func (p *Publisher) publish(ctx context.Context, eventType string, record api.VisitorRequest) {
	event := api.ChangeEvent{
		EventType: eventType,
		Table:     "visitor_requests",
		Record:    record,
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "marshal change event", "error", err)
		return
	}

	if err := p.rdb.Publish(ctx, api.ChangeChannel, b).Err(); err != nil {
		p.logger.Warn(ctx, "publish change event", "error", err, "event_type", eventType, "id", record.ID)
	}
}
