package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

func newTestPublisher(t *testing.T) (*Publisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logging.NewSlogLogger(slog.Default())
	return NewPublisher(rdb, logger), rdb
}

func TestPublisher_RequestInserted(t *testing.T) {
	p, rdb := newTestPublisher(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, api.ChangeChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	record := api.VisitorRequest{ID: "req-1", VisitorName: "Jane Doe", Status: "pending"}
	p.RequestInserted(ctx, record)

	select {
	case msg := <-sub.Channel():
		var event api.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, api.EventInsert, event.EventType)
		assert.Equal(t, "visitor_requests", event.Table)
		assert.Equal(t, "req-1", event.Record.ID)
		assert.Equal(t, "Jane Doe", event.Record.VisitorName)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublisher_RequestUpdated(t *testing.T) {
	p, rdb := newTestPublisher(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, api.ChangeChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p.RequestUpdated(ctx, api.VisitorRequest{ID: "req-2", Status: "approved"})

	select {
	case msg := <-sub.Channel():
		var event api.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, api.EventUpdate, event.EventType)
		assert.Equal(t, "approved", event.Record.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublisher_RedisDown_DoesNotPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := logging.NewSlogLogger(slog.Default())
	p := NewPublisher(rdb, logger)

	mr.Close()

	assert.NotPanics(t, func() {
		p.RequestInserted(context.Background(), api.VisitorRequest{ID: "x"})
	})
}
