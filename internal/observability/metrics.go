package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reelhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FollowOperations counts follow graph mutations by operation and outcome.
	FollowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelhub_follow_operations_total",
		Help: "Follow and unfollow attempts by outcome",
	}, []string{"operation", "outcome"})

	// FeedRequestLatency records feed assembly time by feed kind.
	FeedRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reelhub_feed_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"feed"})

	// FeedCandidates observes how many posts the for-you ranker scored.
	FeedCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reelhub_feed_candidates",
		Help:    "Number of candidate posts scored per for-you request",
		Buckets: []float64{0, 10, 50, 100, 250, 500, 1000},
	})

	// ViewIncrementFailures counts best-effort view count updates that failed.
	ViewIncrementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelhub_view_increment_failures_total",
		Help: "View counter updates that failed after a feed read",
	})

	// ReportsCreated counts accepted reports by severity.
	ReportsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelhub_reports_created_total",
		Help: "Reports accepted by severity",
	}, []string{"severity"})

	// ModerationActions counts moderation actions that changed a post.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelhub_moderation_actions_total",
		Help: "Moderation actions applied by action and source",
	}, []string{"action", "source"})

	// ModerationEvaluationFailures counts auto-moderation runs that errored.
	ModerationEvaluationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelhub_moderation_evaluation_failures_total",
		Help: "Auto-moderation evaluations that failed",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackFeed returns a function that records feed latency when called.
func TrackFeed(feed string) func() {
	start := time.Now()
	return func() {
		FeedRequestLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}
