// Package metrics defines and registers all custom Prometheus metrics
// for the portal API. It is the single source of truth for metric
// names, labels, and help strings; everything registers with the
// default registry via promauto at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - actor: "admin", "client", or "developer"
//   - result: "ok", "denied", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by actor class and result.",
	},
	[]string{"actor", "result"},
)

// GuardDecisionsTotal counts route-guard evaluations.
// Labels:
//   - subtree: the guarded route subtree ("admin", "client", "pro", "developer")
//   - decision: "render", "login_redirect", or "tier_redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route-guard decisions, by subtree and outcome.",
	},
	[]string{"subtree", "decision"},
)

// ── Realtime metrics ─────────────────────────────────────────────────────────

// ChangeEventsPublished counts events pushed onto the change feed.
var ChangeEventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_published_total",
		Help:      "Total number of change-feed events published, by table and kind.",
	},
	[]string{"table", "kind"},
)

// ChangeEventsDelivered counts events handed to subscribers.
var ChangeEventsDelivered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_delivered_total",
		Help:      "Total number of change-feed events delivered to subscribers, by table and kind.",
	},
	[]string{"table", "kind"},
)

// ChangeEventsDropped counts events lost to slow subscribers.
var ChangeEventsDropped = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_dropped_total",
		Help:      "Total number of change-feed events dropped because a subscriber's buffer was full.",
	},
	[]string{"table"},
)

// StreamSubscribers tracks the number of live change-feed subscriptions.
var StreamSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Current number of live change-feed subscriptions.",
	},
)

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsTotal counts outbound notification outcomes.
// Labels:
//   - kind: the notification kind (e.g. "update_posted")
//   - result: "ok", "error", or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of outbound notifications, by kind and result.",
	},
	[]string{"kind", "result"},
)
