// Package metrics defines and registers the custom Prometheus metrics of the
// newsroom API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsroom"

// ── Access control ───────────────────────────────────────────────────────────

// AuthDecisionsTotal counts access decisions.
// Labels:
//   - capability: the capability evaluated (e.g. "admin_only", "edit_content")
//   - result: "allowed", "unauthenticated" or "forbidden"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of access decisions, by capability and result.",
	},
	[]string{"capability", "result"},
)

// TokenRejectionsTotal counts bearer tokens that failed to decode.
// Label:
//   - kind: "malformed", "bad_signature" or "expired"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of presented tokens that failed verification.",
	},
	[]string{"kind"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Mutations ────────────────────────────────────────────────────────────────

// MutationsTotal counts finished mutations.
// Labels:
//   - action: e.g. "article.update", "article.set_tags"
//   - state: "committed", "rejected" or "rolled_back"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of mutations, by action and terminal state.",
	},
	[]string{"action", "state"},
)

// AuditQueueDepth tracks the number of audit records pending per worker.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit records discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit records dropped on a full queue.",
	},
)

// AuditWriteDuration measures how long persisting one audit record takes.
// Label:
//   - result: "ok" or "error"
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of audit record persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// TagReplaceDuration measures a whole tag replacement unit of work.
// Label:
//   - state: terminal mutation state
var TagReplaceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tag_replace_duration_seconds",
		Help:      "Duration of article tag replacement, by terminal state.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"state"},
)

// ── Content ──────────────────────────────────────────────────────────────────

// ArticleViewsTotal counts view registrations.
// Label:
//   - result: "counted" or "deduplicated"
var ArticleViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_views_total",
		Help:      "Total number of article view registrations, by dedup result.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size of stored uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 6), // 16KiB … 16MiB
	},
)
