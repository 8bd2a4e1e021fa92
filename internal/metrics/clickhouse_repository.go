package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heavyindex",
		Subsystem: "clickhouse",
		Name:      "operations_total",
		Help:      "Count of ClickHouse repository operations.",
	}, []string{"operation", "network", "status"})
	clickhouseOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heavyindex",
		Subsystem: "clickhouse",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ClickHouse repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ClickhouseRepository tracks metrics for index repository operations.
type ClickhouseRepository struct {
	network string
}

// NewClickhouseRepository constructs a metrics collector for the repository.
func NewClickhouseRepository(network string) *ClickhouseRepository {
	if network == "" {
		network = "unknown"
	}
	return &ClickhouseRepository{network: network}
}

// Observe records a single repository operation outcome and duration.
func (m ClickhouseRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	clickhouseOperationsTotal.WithLabelValues(operation, m.network, status).Inc()
	clickhouseOperationDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
