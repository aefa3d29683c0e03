// Package metrics defines and registers all custom Prometheus metrics for
// the edge gateway. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "edge"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateRedirectsTotal counts redirects issued by the access-control gate.
// Label:
//   - reason: "login" (unauthenticated on a protected prefix), "denied"
//     (non-admin on the admin prefix), or "landing" (authenticated user on
//     the login page)
var GateRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_redirects_total",
		Help:      "Total number of redirects issued by the access-control gate.",
	},
	[]string{"reason"},
)

// ── Proxy metrics ─────────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts proxied calls that reached the backend.
// Labels:
//   - method: HTTP method of the proxied call
//   - status: upstream HTTP status code (e.g. "200", "404")
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of proxied requests forwarded to the backend.",
	},
	[]string{"method", "status"},
)

// UpstreamErrorsTotal counts proxied calls that never produced a relayable
// upstream response.
// Label:
//   - reason: "unreachable" (transport failure) or "bad_payload" (upstream
//     error body was not a JSON object)
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of proxied requests that failed without a relayable upstream response.",
	},
	[]string{"reason"},
)

// UpstreamDuration measures the end-to-end latency of a proxied call.
// Label:
//   - method: HTTP method of the proxied call
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_duration_seconds",
		Help:      "Duration of proxied backend calls from dispatch to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts successful logins by mechanism.
// Label:
//   - method: "otp" or "google"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by login method.",
	},
	[]string{"method"},
)
