// Package metrics holds the Prometheus collectors shared by the ESI client and the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ESIRequests counts upstream requests by endpoint group and status ("200", "404", "error", ...).
var ESIRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "nexus",
		Subsystem: "esi",
		Name:      "requests_total",
		Help:      "Upstream ESI requests by endpoint and status",
	},
	[]string{"endpoint", "status"},
)

// ESIRequestDuration observes upstream round-trip latency, excluding scheduler wait.
var ESIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "nexus",
		Subsystem: "esi",
		Name:      "request_duration_seconds",
		Help:      "Upstream ESI request latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	},
	[]string{"endpoint"},
)

// HistoryCache counts history cache lookups by result ("hit" or "miss").
var HistoryCache = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "nexus",
		Name:      "history_cache_total",
		Help:      "Market history cache lookups by result",
	},
	[]string{"result"},
)

// Analyses counts market analysis requests by outcome ("analyzed", "no_data").
var Analyses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "nexus",
		Name:      "analyses_total",
		Help:      "Market analyses served by outcome",
	},
	[]string{"outcome"},
)
