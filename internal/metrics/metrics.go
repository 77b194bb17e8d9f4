package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesProcessed tracks queue consumer throughput, labelled by queue
	// and outcome (ok/error/dropped).
	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workers_messages_processed_total",
		Help: "Total number of queue messages processed",
	}, []string{"queue", "status"})

	// SyncRuns counts periodic job runs by job name and outcome.
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workers_sync_runs_total",
		Help: "Total number of periodic job runs",
	}, []string{"job", "status"})

	// SyncRunDuration measures how long a full job run takes.
	SyncRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workers_sync_run_duration_seconds",
		Help:    "Duration of periodic job runs in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	// RecipesIndexed counts documents upserted into the search index.
	RecipesIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workers_recipes_indexed_total",
		Help: "Total number of recipe documents upserted into the search index",
	})

	// RecipesUnindexed counts tombstoned documents removed from the index.
	RecipesUnindexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workers_recipes_unindexed_total",
		Help: "Total number of recipe documents deleted from the search index",
	})

	// SubscriptionsDowngraded counts users downgraded by reconciliation,
	// labelled by billing provider.
	SubscriptionsDowngraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workers_subscriptions_downgraded_total",
		Help: "Total number of users downgraded to the free tier",
	}, []string{"provider"})
)
