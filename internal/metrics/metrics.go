// Package metrics provides Prometheus instrumentation for the daemon.
// Register-once package-level collectors; expose via Handler at
// GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActiveSessions is the number of live playback sessions.
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "flix_sessions_active",
	Help: "Number of live playback sessions.",
})

// CheckpointWrites counts persisted progress checkpoints by result.
var CheckpointWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flix_checkpoint_writes_total",
	Help: "Progress checkpoint writes by result.",
}, []string{"result"})

// UpstreamErrors counts catalog upstream failures by source and call.
var UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flix_upstream_errors_total",
	Help: "Catalog upstream failures.",
}, []string{"source", "call"})

// RelayRequests counts media relay requests by upstream status class.
var RelayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flix_relay_requests_total",
	Help: "Media relay requests by upstream status class.",
}, []string{"status"})

// SearchQueries counts catalog searches by source.
var SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flix_search_queries_total",
	Help: "Catalog searches issued.",
}, []string{"source"})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
