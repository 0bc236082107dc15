package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeStatus  = "status"
	OutcomeTimeout = "timeout"
	OutcomeEmpty   = "empty"
)

var (
	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intel_feed_source_fetches_total",
		Help: "Upstream fetch attempts by source and outcome",
	}, []string{"source", "outcome"})

	SourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "intel_feed_source_fetch_duration_seconds",
		Help:    "Duration of upstream fetches",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"source"})

	SourceItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "intel_feed_source_items",
		Help: "Items kept from the last successful fetch of a source",
	}, []string{"source"})

	Fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intel_feed_fallbacks_total",
		Help: "Responses served from fallback content",
	}, []string{"kind"})

	SnapshotsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intel_feed_snapshots_published_total",
		Help: "Snapshots written to Kafka by kind and status",
	}, []string{"kind", "status"})

	AlertsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intel_feed_alerts_relayed_total",
		Help: "Critical headlines relayed to the alert topic",
	})
)

// ObserveFetch records one attempt against source.
func ObserveFetch(source, outcome string, started time.Time) {
	SourceFetches.WithLabelValues(source, outcome).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}
