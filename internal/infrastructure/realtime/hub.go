// Package realtime implements the in-process fan-out behind the change
// feed: subscribers attach per (table, tenant) channel and receive the
// tenant's events in publication order over bounded channels.
package realtime

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/ports"
)

const defaultBuffer = 64

// Hub fans events out to subscribers. Delivery is non-blocking: a
// subscriber that cannot keep up loses the event (and a log line and
// counter record the drop); it will reconcile on its next re-fetch.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	log    zerolog.Logger
}

func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe attaches to the (table, tenantID) channel. The tenant
// filter is mandatory; there is no wildcard subscription.
func (h *Hub) Subscribe(table, tenantID string) (*Subscription, error) {
	if table == "" || tenantID == "" {
		return nil, fmt.Errorf("realtime: subscription requires table and tenant")
	}

	s := &Subscription{
		hub: h,
		key: channelKey(table, tenantID),
		ch:  make(chan ports.ChangeEvent, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[s.key]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[s.key] = set
	}
	set[s] = struct{}{}
	metrics.StreamSubscribers.Inc()
	return s, nil
}

// Publish delivers the event to every subscriber of its channel and
// returns the delivery count. Publication and unsubscription are
// serialized on the same lock, so an unsubscribed subscription can
// never receive a late event.
func (h *Hub) Publish(event ports.ChangeEvent) int {
	key := channelKey(event.Table, event.TenantID)

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for s := range h.subs[key] {
		select {
		case s.ch <- event:
			delivered++
			metrics.ChangeEventsDelivered.WithLabelValues(event.Table, string(event.Kind)).Inc()
		default:
			metrics.ChangeEventsDropped.WithLabelValues(event.Table).Inc()
			h.log.Warn().Str("channel", key).Msg("slow subscriber, event dropped")
		}
	}
	return delivered
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.key]; ok {
		if _, member := set[s]; member {
			delete(set, s)
			metrics.StreamSubscribers.Dec()
			if len(set) == 0 {
				delete(h.subs, s.key)
			}
		}
	}
}

// Subscription is one attachment to a hub channel.
type Subscription struct {
	hub  *Hub
	key  string
	ch   chan ports.ChangeEvent
	once sync.Once
}

// Events returns the subscription's event channel. It is closed by
// Unsubscribe; events already buffered are discarded with it.
func (s *Subscription) Events() <-chan ports.ChangeEvent {
	return s.ch
}

// Unsubscribe detaches synchronously. Safe to call more than once.
// Events buffered but not yet consumed are drained before the channel
// closes, so an event emitted between Subscribe and Unsubscribe is
// never delivered.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		for {
			select {
			case <-s.ch:
			default:
				close(s.ch)
				return
			}
		}
	})
}

func channelKey(table, tenantID string) string {
	return table + ":" + tenantID
}
