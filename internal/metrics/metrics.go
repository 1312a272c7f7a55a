// Package metrics provides Prometheus instrumentation for the
// ingestion pipeline and query paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the portal's Prometheus collectors.
type Metrics struct {
	IngestTotal       *prometheus.CounterVec
	IngestDuration    prometheus.Histogram
	IngestWarnings    prometheus.Counter
	BacklinkMutations prometheus.Counter
	SearchQueries     prometheus.Counter
	SearchHits        prometheus.Counter
	SchemaIngestTotal *prometheus.CounterVec
}

// New creates and registers the collectors on reg. A nil reg gets a
// private registry, which keeps repeated construction in tests from
// panicking on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		IngestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dochub_ingest_total",
				Help: "Total number of document ingestions by outcome",
			},
			[]string{"status"},
		),
		IngestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dochub_ingest_duration_seconds",
				Help:    "Duration of document ingestions in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		IngestWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dochub_ingest_warnings_total",
				Help: "Total number of non-fatal warnings emitted after metadata commit",
			},
		),
		BacklinkMutations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dochub_backlink_mutations_total",
				Help: "Total number of backlink delta applications",
			},
		),
		SearchQueries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dochub_search_queries_total",
				Help: "Total number of search queries",
			},
		),
		SearchHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dochub_search_hits_total",
				Help: "Total number of search hits returned",
			},
		),
		SchemaIngestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dochub_schema_ingest_total",
				Help: "Total number of schema ingestions by outcome",
			},
			[]string{"status"},
		),
	}
}
