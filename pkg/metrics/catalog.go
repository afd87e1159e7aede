package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the catalog list handler, fan-out included
	CatalogListLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_list_latency_seconds",
		Help:    "Latency of catalog list queries",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total catalog cache hits",
	})

	CatalogCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total catalog cache misses",
	})

	// Per-shard query failures during fan-out; a failing shard is
	// excluded from the merge, never fatal to the request
	CatalogShardFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_shard_failures_total",
		Help: "Total per-shard query failures during fan-out",
	}, []string{"shard"})

	// Recommendations served, labelled by the tier that produced them
	// (external / engine / popularity)
	RecoRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_requests_total",
		Help: "Total recommendation requests by source tier",
	}, []string{"source"})

	RecoLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_latency_seconds",
		Help:    "Latency of recommendation computation and hydration",
		Buckets: prometheus.DefBuckets,
	})

	ViewEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interaction_events_total",
		Help: "Total recorded interaction events by kind",
	}, []string{"kind"})
)

func Init() {
	prometheus.MustRegister(
		CatalogListLatency,
		CatalogCacheHits,
		CatalogCacheMisses,
		CatalogShardFailures,
		RecoRequestsTotal,
		RecoLatency,
		ViewEventsTotal,
	)
}
