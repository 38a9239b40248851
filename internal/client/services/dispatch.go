package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

// NotificationKind classifies what a dispatcher event means to the user.
type NotificationKind string

const (
	// NotifyNewRequest is a targeted alert: a visitor is waiting at the
	// gate for the actor's own flat.
	NotifyNewRequest NotificationKind = "new_request"
	// NotifyStatusChange is a generic alert: some request was approved or
	// denied.
	NotifyStatusChange NotificationKind = "status_change"
)

// Notification is what the dispatcher surfaces to the presentation layer.
type Notification struct {
	Kind    NotificationKind
	Request api.VisitorRequest
}

// DispatcherHooks are the outward wires of the dispatcher. Refresh re-runs
// whichever read query backs the active view; Notify surfaces an alert.
// Both run on the consumer goroutine, one event at a time.
type DispatcherHooks struct {
	Refresh func(ctx context.Context)
	Notify  func(n Notification)

	// ResidentFlatID returns the flat of the logged-in resident, or ""
	// when the actor is a guard or admin. Consulted per event so a login
	// mid-stream takes effect.
	ResidentFlatID func() string
}

// Dispatcher holds the single live subscription to the change channel and
// fans events out through an internal buffered channel consumed by one
// loop, so ordering is explicit and backpressure is a visible drop.
// Delivery is at-most-once: events published while disconnected are gone;
// reconnection resumes live delivery only.
type Dispatcher struct {
	rdb    *redis.Client
	hooks  DispatcherHooks
	logger logging.Logger
	events chan api.ChangeEvent
}

const eventBufferSize = 64

func NewDispatcher(rdb *redis.Client, hooks DispatcherHooks, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		rdb:    rdb,
		hooks:  hooks,
		logger: logger.With("module", "dispatch"),
		events: make(chan api.ChangeEvent, eventBufferSize),
	}
}

// Run subscribes and processes events until ctx is cancelled. It blocks;
// callers run it on its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	pubsub := d.rdb.Subscribe(ctx, api.ChangeChannel)
	defer pubsub.Close()

	go d.receive(ctx, pubsub)
	d.consume(ctx)
}

// receive moves raw messages from the subscription into the internal
// channel. A full buffer drops the event; at-most-once makes that legal,
// and the next refresh re-reads full state anyway.
func (d *Dispatcher) receive(ctx context.Context, pubsub *redis.PubSub) {
	for {
		select {
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event api.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				d.logger.Warn(ctx, "dropping malformed change event", "error", err)
				continue
			}
			select {
			case d.events <- event:
			default:
				d.logger.Warn(ctx, "event buffer full, dropping event", "type", event.EventType)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) consume(ctx context.Context) {
	for {
		select {
		case event := <-d.events:
			d.handle(ctx, event)
		case <-ctx.Done():
			return
		}
	}
}

// handle applies the dispatch policy: always refresh the active view,
// then decide whether the event warrants an alert.
func (d *Dispatcher) handle(ctx context.Context, event api.ChangeEvent) {
	if d.hooks.Refresh != nil {
		d.hooks.Refresh(ctx)
	}
	if d.hooks.Notify == nil {
		return
	}

	switch event.EventType {
	case api.EventInsert:
		if d.hooks.ResidentFlatID == nil {
			return
		}
		if flatID := d.hooks.ResidentFlatID(); flatID != "" && event.Record.FlatID == flatID {
			d.hooks.Notify(Notification{Kind: NotifyNewRequest, Request: event.Record})
		}
	case api.EventUpdate:
		if event.Record.Status == "approved" || event.Record.Status == "denied" {
			d.hooks.Notify(Notification{Kind: NotifyStatusChange, Request: event.Record})
		}
	}
}
