// Package metrics defines all custom Prometheus metrics for the back-office
// client. It is the single source of truth for metric names, labels, and help
// strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// APIRequestsTotal counts outgoing POS API requests.
// Labels:
//   - method: HTTP method
//   - status: numeric response status, or "error" when transport failed
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outgoing POS API requests.",
	},
	[]string{"method", "status"},
)

// APIRequestDuration measures outgoing request latency.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of outgoing POS API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// AuthFailuresTotal counts 401 responses that forced a logout.
var AuthFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication-failure responses that revoked the session.",
	},
)

// ToastsShownTotal counts notifications surfaced to the user.
// Label:
//   - kind: "success" or "error"
var ToastsShownTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_shown_total",
		Help:      "Total number of transient notifications shown, by kind.",
	},
	[]string{"kind"},
)

// ListFetchesTotal counts list-page fetch cycles.
// Labels:
//   - page: logical page name (clients, products, orders)
//   - result: "ok" or "error"
var ListFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_fetches_total",
		Help:      "Total number of paginated list fetch cycles, by page and result.",
	},
	[]string{"page", "result"},
)
