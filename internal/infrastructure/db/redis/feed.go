package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/ports"
	"github.com/brightfold/portal-api/internal/infrastructure/realtime"
)

const channelPrefix = "changes:"

// Feed implements ports.ChangeFeed on Redis pub/sub. Publishes go out
// on a per-(table, tenant) channel; a single pump goroutine receives
// every channel and replays events into the in-process hub, which owns
// all subscriber bookkeeping. go-redis reconnects the pub/sub
// transport on transient failure, so the hub subscriptions survive a
// disconnect and resume delivery once the transport is back.
type Feed struct {
	rdb    *redis.Client
	hub    *realtime.Hub
	pubsub *redis.PubSub
	log    zerolog.Logger
}

func NewFeed(rdb *redis.Client, hub *realtime.Hub, log zerolog.Logger) *Feed {
	return &Feed{rdb: rdb, hub: hub, log: log}
}

// Start opens the pattern subscription and launches the pump. The pump
// stops when ctx is cancelled or Close is called.
func (f *Feed) Start(ctx context.Context) {
	f.pubsub = f.rdb.PSubscribe(ctx, channelPrefix+"*")
	go f.pump(ctx)
}

func (f *Feed) pump(ctx context.Context) {
	ch := f.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ports.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				f.log.Error().Err(err).Str("channel", msg.Channel).Msg("malformed change event")
				continue
			}
			f.hub.Publish(event)
		}
	}
}

// Publish sends the event to its (table, tenant) channel. Local
// delivery happens through the pump, never directly, so every
// subscriber sees one copy per event regardless of which process
// published it.
func (f *Feed) Publish(ctx context.Context, event ports.ChangeEvent) error {
	if event.Table == "" || event.TenantID == "" {
		return fmt.Errorf("change event requires table and tenant")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	if err := f.rdb.Publish(ctx, channelName(event.Table, event.TenantID), payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	metrics.ChangeEventsPublished.WithLabelValues(event.Table, string(event.Kind)).Inc()
	return nil
}

// Subscribe attaches to the hub's (table, tenant) channel.
func (f *Feed) Subscribe(table, tenantID string) (ports.Subscription, error) {
	sub, err := f.hub.Subscribe(table, tenantID)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Close tears down the pattern subscription.
func (f *Feed) Close() error {
	if f.pubsub == nil {
		return nil
	}
	return f.pubsub.Close()
}

func channelName(table, tenantID string) string {
	return fmt.Sprintf("%s%s:%s", channelPrefix, table, tenantID)
}
