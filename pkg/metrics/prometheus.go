package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ingestion counters exported on /metrics.
type Metrics struct {
	ImportsTotal      *prometheus.CounterVec
	RecordsAccepted   prometheus.Counter
	RecordsRejected   prometheus.Counter
	FeedFetchDuration prometheus.Histogram
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Import runs by outcome (created, partial, feed_error)",
		}, []string{"outcome"}),
		RecordsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_accepted_total",
			Help:      "Feed entries stored as asteroid records",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Feed entries rejected during import",
		}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Time spent fetching one day of the NEO feed",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ImportsTotal, m.RecordsAccepted, m.RecordsRejected, m.FeedFetchDuration)
	}

	return m
}
