// Package metrics defines and registers all custom Prometheus metrics for
// the Bank ABC back-office API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "bad_credentials", "unavailable", "signing_failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// LoginDuration measures the full login transaction: credential lookup,
// password verification, role/employee resolution and token signing.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of the login transaction end-to-end.",
		Buckets:   prometheus.DefBuckets,
	},
)

// TokenVerificationsTotal counts bearer verifications on protected requests.
// Label:
//   - result: "ok", "malformed", "bad_signature", "expired", "not_yet_valid", "missing"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, labelled by result.",
	},
	[]string{"result"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// RoleCacheTotal counts role-cache lookups.
// Label:
//   - result: "hit", "miss", "error"
var RoleCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_cache_total",
		Help:      "Total number of role cache lookups, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)
