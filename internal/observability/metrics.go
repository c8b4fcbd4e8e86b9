package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogicum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts posts accepted for publication, split by whether
	// the publication date was in the future at creation time.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_posts_created_total",
		Help: "Total number of posts created",
	}, []string{"scheduled"})

	// CacheHits counts cache-aside lookups by key prefix and outcome.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogicum_cache_lookups_total",
		Help: "Cache-aside lookups by key prefix and outcome",
	}, []string{"prefix", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
