package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/repositories/queue"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
)

func queuedPayload(name string) api.CreateRequestPayload {
	return api.CreateRequestPayload{
		VisitorName: name,
		FlatCode:    "B203",
		PhotoURL:    "data:image/jpeg;base64,xxxx",
	}
}

func TestDrain_PersistsInOrderAndEmptiesQueue(t *testing.T) {
	gw := newFakeGateway()
	repo := queue.NewSQLiteRepository(testDB(t))
	s := NewQueueService(repo, gw, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, queuedPayload("first")))
	require.NoError(t, s.Enqueue(ctx, queuedPayload("second")))

	drained, err := s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, drained)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.Len(t, gw.created, 2)
	assert.Equal(t, "first", gw.created[0].VisitorName)
	assert.Equal(t, "second", gw.created[1].VisitorName)
}

func TestDrain_StopsAtFirstFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failCreates = 1
	repo := queue.NewSQLiteRepository(testDB(t))
	s := NewQueueService(repo, gw, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, queuedPayload("first")))
	require.NoError(t, s.Enqueue(ctx, queuedPayload("second")))

	drained, err := s.Drain(ctx)
	assert.ErrorIs(t, err, common.ErrorTransport)
	assert.Equal(t, 0, drained)

	// Both items stay queued, still in order.
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Next drain succeeds and replays the same payloads.
	drained, err = s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, drained)
	assert.Equal(t, "first", gw.created[0].VisitorName)
}

func TestDrain_EmptyQueueIsNoop(t *testing.T) {
	s := NewQueueService(queue.NewSQLiteRepository(testDB(t)), newFakeGateway(), testLogger())

	drained, err := s.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, drained)
}
