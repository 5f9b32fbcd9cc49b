// Package metrics defines and registers all custom Prometheus metrics for
// the back office. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Settings cache metrics ────────────────────────────────────────────────────

// SettingsCacheHitsTotal counts setting reads served from the in-process cache.
var SettingsCacheHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_cache_hits_total",
		Help:      "Total number of setting lookups served from the cache.",
	},
)

// SettingsCacheMissesTotal counts setting reads that went to the repository.
var SettingsCacheMissesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_cache_misses_total",
		Help:      "Total number of setting lookups that missed the cache.",
	},
)

// SettingsCacheLoadsTotal counts full bulk loads of the settings cache.
var SettingsCacheLoadsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_cache_loads_total",
		Help:      "Total number of full settings cache loads.",
	},
)

// SettingsCacheEvictionsTotal counts single-key evictions (resets) and full clears.
// Label:
//   - scope: "key" for a single-key eviction, "all" for a full clear
var SettingsCacheEvictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_cache_evictions_total",
		Help:      "Total number of settings cache evictions, by scope (key/all).",
	},
	[]string{"scope"},
)

// ── Access control metrics ────────────────────────────────────────────────────

// AccessDeniedTotal counts feature-gate denials.
// Labels:
//   - role: the denied role
//   - feature: the feature that was requested
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the feature gate.",
	},
	[]string{"role", "feature"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit queue metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks entries waiting in each audit writer channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each writer channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteErrorsTotal counts audit entries that failed to persist.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of audit entries that could not be written.",
	},
)
