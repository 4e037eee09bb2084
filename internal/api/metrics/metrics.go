// Package metrics defines and registers all custom Prometheus metrics for the
// debt tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on import; the
// echoprometheus handler mounted at /metrics exposes them next to the HTTP
// request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debt_tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "rejected" (client error) or "error" (server error)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// PolicyDenialsTotal counts requests rejected by the authorization policy.
// Label:
//   - route: the Echo route path (e.g. "/debts/:debtId/edit")
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"route"},
)

// ── Debt metrics ──────────────────────────────────────────────────────────────

// DebtsCreatedTotal counts debt creations.
// Label:
//   - replayed: "true" when an idempotency key returned an existing debt
var DebtsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debts_created_total",
		Help:      "Total number of debts created, labelled by idempotent replay.",
	},
	[]string{"replayed"},
)

// DebtStatusUpdatesTotal counts status changes.
// Label:
//   - status: the new status ("pending", "scheduled", "paid")
var DebtStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debt_status_updates_total",
		Help:      "Total number of debt status updates, by new status.",
	},
	[]string{"status"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEntriesTotal counts audit entries by outcome.
// Label:
//   - result: "recorded", "failed" or "dropped" (queue full or closed)
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries, by outcome.",
	},
	[]string{"result"},
)
