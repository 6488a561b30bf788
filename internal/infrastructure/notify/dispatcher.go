package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/api/metrics"
	"github.com/brightfold/portal-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher fans notifications out to a fixed set of workers, sharded
// by tenant id so one tenant's notifications keep their order. Send is
// non-blocking: the primary write that produced the notification never
// waits on delivery, and a full worker queue drops the notification
// with a log line rather than stalling the caller.
type Dispatcher struct {
	workers []chan ports.Notification
	sender  ports.Notifier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers
// delivering through sender. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues the notification for asynchronous delivery. It
// implements ports.Notifier and always returns nil: delivery failures
// are the worker's to log, never the caller's to handle.
func (d *Dispatcher) Send(_ context.Context, n ports.Notification) error {
	select {
	case d.workers[d.shardIndex(n.TenantID)] <- n:
	default:
		metrics.NotificationsTotal.WithLabelValues(n.Kind, "dropped").Inc()
		d.log.Warn().Str("kind", n.Kind).Str("tenant_id", n.TenantID).Msg("notification queue full, dropped")
	}
	return nil
}

// shardIndex maps a tenant id deterministically to a worker index.
func (d *Dispatcher) shardIndex(tenantID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tenantID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues(n.Kind, "error").Inc()
				d.log.Error().Err(err).
					Str("kind", n.Kind).
					Str("tenant_id", n.TenantID).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues(n.Kind, "ok").Inc()
		}
	}
}
