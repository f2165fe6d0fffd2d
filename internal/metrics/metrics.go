package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "http_requests_total",
		Help:      "Total local API requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "client",
		Name:      "http_request_duration_seconds",
		Help:      "Local API request duration in seconds.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1},
	}, []string{"method", "path"})

	RESTRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "rest_requests_total",
		Help:      "Total backend REST calls by operation and outcome.",
	}, []string{"op", "outcome"})

	ConnectionState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "client",
		Name:      "push_connection_state",
		Help:      "Push channel state: 0 disconnected, 1 connecting, 2 connected.",
	})

	ReconnectsScheduledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "push_reconnects_scheduled_total",
		Help:      "Total push channel reconnect attempts scheduled.",
	})

	SnapshotsAppliedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "snapshots_applied_total",
		Help:      "Total push snapshots applied to the torrent view.",
	})

	SnapshotParseFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "snapshot_parse_failures_total",
		Help:      "Total push messages dropped because they failed to parse.",
	})

	ListFetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "client",
		Name:      "list_fetch_failures_total",
		Help:      "Total failed authoritative list fetches.",
	})

	TorrentsInView = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "client",
		Name:      "torrents_in_view",
		Help:      "Number of torrents in the current authoritative view.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RESTRequestsTotal,
		ConnectionState,
		ReconnectsScheduledTotal,
		SnapshotsAppliedTotal,
		SnapshotParseFailuresTotal,
		ListFetchFailuresTotal,
		TorrentsInView,
	)
}
