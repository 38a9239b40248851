// Package queue persists guard submissions made while the gateway is
// unreachable. Items are keyed by insertion order only and removed after
// the server confirms persistence.
package queue

import (
	"context"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
)

// Item is one queued submission. Seq reflects insertion order.
type Item struct {
	Seq     int64
	Payload api.CreateRequestPayload
}

type Repository interface {
	// Enqueue appends a submission to the back of the queue.
	Enqueue(ctx context.Context, payload api.CreateRequestPayload) error

	// ListOrdered returns all queued items, front (oldest) first.
	ListOrdered(ctx context.Context) ([]Item, error)

	// Delete removes one item by its sequence number.
	Delete(ctx context.Context, seq int64) error

	// Count returns the number of queued items.
	Count(ctx context.Context) (int, error)
}
