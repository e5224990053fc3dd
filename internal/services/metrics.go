package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResumesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_ranker_resumes_scored_total",
			Help: "Total number of resumes scored, by engine",
		},
		[]string{"engine"},
	)

	ModelAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_ranker_model_attempts_total",
			Help: "Total number of model call attempts, by outcome",
		},
		[]string{"outcome"},
	)

	GuardrailClamps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_ranker_guardrail_clamps_total",
			Help: "Total number of guardrail clamps applied, by rule",
		},
		[]string{"rule"},
	)

	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_ranker_batches_total",
			Help: "Total number of analysis batches, by outcome",
		},
		[]string{"outcome"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_ranker_batch_duration_seconds",
			Help:    "Duration of analysis batches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	LedgerPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_ranker_ledger_purged_total",
			Help: "Total number of expired progress entries purged",
		},
	)
)
