package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_cache_hits_total",
			Help: "Cache reads served without touching the core banking system",
		},
		[]string{"record_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_cache_misses_total",
			Help: "Cache reads that fell through to the core banking system",
		},
		[]string{"record_type"},
	)

	// Transfer metrics
	TransfersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_transfers_submitted_total",
			Help: "Transfer submissions by outcome",
		},
		[]string{"outcome"},
	)

	FraudAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_fraud_assessments_total",
			Help: "Fraud assessments by risk level",
		},
		[]string{"risk_level"},
	)

	// Worker metrics
	TransactionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_transactions_processed_total",
			Help: "Queue messages processed by transaction type",
		},
		[]string{"transaction_type"},
	)

	ProcessingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gobank_processing_failures_total",
			Help: "Queue messages that failed processing",
		},
	)

	DeadLettered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gobank_dead_lettered_total",
			Help: "Queue messages parked on the dead letter queue",
		},
	)

	// Notification metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gobank_notifications_sent_total",
			Help: "Notifications delivered by channel and type",
		},
		[]string{"channel", "notification_type"},
	)
)
