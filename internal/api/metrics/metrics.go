// Package metrics defines and registers all custom Prometheus metrics for the
// invoice dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Invoice metrics ───────────────────────────────────────────────────────────

// InvoiceMutationsTotal counts invoice form actions.
// Labels:
//   - action: "create", "update" or "delete"
//   - result: "ok", "invalid" (field errors) or "error" (database failure)
var InvoiceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoice_mutations_total",
		Help:      "Total number of invoice form actions, by action and result.",
	},
	[]string{"action", "result"},
)

// InvoiceMutationDuration measures how long a form action takes end-to-end.
// Label:
//   - action: "create", "update" or "delete"
var InvoiceMutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invoice_mutation_duration_seconds",
		Help:      "Duration of invoice form actions from request to outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Page cache metrics ────────────────────────────────────────────────────────

// PageCacheLookupsTotal counts listing cache lookups.
// Label:
//   - result: "hit" or "miss"
var PageCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_lookups_total",
		Help:      "Total number of page cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts audit events discarded because a worker
// channel was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full queue.",
	},
)

// AuditEventsFailedTotal counts audit events the store refused.
var AuditEventsFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_failed_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// PageCacheRevalidationsTotal counts route invalidations.
// Label:
//   - result: "ok" or "error"
var PageCacheRevalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_revalidations_total",
		Help:      "Total number of page cache revalidations, labelled by result.",
	},
	[]string{"result"},
)
