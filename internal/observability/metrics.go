package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Response cache outcomes recorded by ResponseCacheEvents.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ResponseCacheEvents counts anonymous response cache lookups by route and outcome.
	ResponseCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_response_cache_events_total",
		Help: "Anonymous response cache lookups by route and outcome",
	}, []string{"route", "result"})

	// ListingCandidates records how many candidate posts a listing had to order and paginate.
	ListingCandidates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scribe_listing_candidates",
		Help:    "Number of candidate posts per listing request",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"filtered"})

	// TagCreateConflicts counts tag inserts that lost a race on the slug.
	TagCreateConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_tag_create_conflicts_total",
		Help: "Tag get-or-create attempts that found a concurrently created slug",
	})
)
