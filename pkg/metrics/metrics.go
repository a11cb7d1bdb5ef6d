package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. Registered on the default registry; exposed by the
// HTTP server on /metrics.
var (
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finquery",
		Subsystem: "pipeline",
		Name:      "queries_total",
		Help:      "Processed queries by intent and answer path.",
	}, []string{"intent", "path"}) // path: ai | fallback | meta

	FallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finquery",
		Subsystem: "pipeline",
		Name:      "fallbacks_total",
		Help:      "Stage degradations recovered by the deterministic reasoner.",
	}, []string{"stage"})

	RateLimitTripsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finquery",
		Subsystem: "pipeline",
		Name:      "rate_limit_trips_total",
		Help:      "Upstream rate-limit errors that opened the cooldown window.",
	})

	ApprovalBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finquery",
		Subsystem: "planner",
		Name:      "approval_blocks_total",
		Help:      "Planned actions held for human approval.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "finquery",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Wall time per pipeline stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
)
