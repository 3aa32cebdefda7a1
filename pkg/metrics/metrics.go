package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncCycleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_cycle_count",
			Help: "Total number of per-account sync cycles",
		},
		[]string{"status"}, // status: success, failed, locked
	)

	EmailIngestedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_ingested_count",
			Help: "Total number of fetched emails by outcome",
		},
		[]string{"outcome"}, // outcome: inserted, duplicate
	)

	ClassificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_classification_count",
			Help: "Total number of classification attempts by result",
		},
		[]string{"result"}, // result: category name, unrecognized, error
	)

	AICallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_call_latency_ms",
			Help:    "AI capability call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"operation", "status"},
	)

	NotificationSinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sink_failures",
			Help: "Total number of failed notification sink deliveries",
		},
		[]string{"sink"},
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries over the slow-query threshold",
		},
	)
)

func RecordSyncCycle(status string) {
	SyncCycleCount.WithLabelValues(status).Inc()
}

func RecordEmailIngested(outcome string) {
	EmailIngestedCount.WithLabelValues(outcome).Inc()
}

func RecordClassification(result string) {
	ClassificationCount.WithLabelValues(result).Inc()
}

func RecordAICallLatency(operation, status string, duration time.Duration) {
	AICallLatency.WithLabelValues(operation, status).Observe(float64(duration.Milliseconds()))
}

func RecordNotificationSinkFailure(sink string) {
	NotificationSinkFailures.WithLabelValues(sink).Inc()
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
