package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	CompletionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qada_completions_total",
			Help: "Completion events by prayer and outcome",
		},
		[]string{"prayer", "outcome"}, // outcome: recorded, nothing_to_log
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qada_cache_lookups_total",
			Help: "Profile cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qada_events_published_total",
			Help: "Ledger events handed to the broker",
		},
		[]string{"routing_key", "status"},
	)

	StreakJobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qada_streak_jobs_enqueued_total",
		Help: "Streak recomputation jobs accepted by the worker queue",
	})

	StreakJobsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qada_streak_jobs_dropped_total",
		Help: "Streak recomputation jobs dropped because the queue was full",
	})
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

func IncrementCompletion(prayer, outcome string) {
	CompletionsRecorded.WithLabelValues(prayer, outcome).Inc()
}

func IncrementCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(result).Inc()
}

func IncrementEventPublished(routingKey, status string) {
	EventsPublished.WithLabelValues(routingKey, status).Inc()
}
