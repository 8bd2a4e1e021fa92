package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterFetchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heavyindex",
		Subsystem: "ingester",
		Name:      "fetch_runs_total",
		Help:      "Count of fetch pipeline runs.",
	}, []string{"network", "source", "status"})
	ingesterFetchRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heavyindex",
		Subsystem: "ingester",
		Name:      "fetch_run_duration_seconds",
		Help:      "Duration of fetch pipeline runs.",
		Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300, 900},
	}, []string{"network", "source", "status"})
	ingesterBlocksIndexedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heavyindex",
		Subsystem: "ingester",
		Name:      "blocks_indexed_total",
		Help:      "Count of blocks handed to the index sink.",
	}, []string{"network", "source"})
)

// Ingester tracks metrics for the block ingestion loop.
type Ingester struct {
	network string
	source  string
}

// NewIngester constructs a metrics collector for the ingester.
func NewIngester(network, source string) *Ingester {
	if network == "" {
		network = "unknown"
	}
	return &Ingester{network: network, source: source}
}

// ObserveFetchRun records the outcome and duration of one pipeline run.
func (m Ingester) ObserveFetchRun(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ingesterFetchRunsTotal.WithLabelValues(m.network, m.source, status).Inc()
	ingesterFetchRunDuration.WithLabelValues(m.network, m.source, status).Observe(time.Since(started).Seconds())
}

// AddBlocksIndexed counts blocks delivered to the index sink.
func (m Ingester) AddBlocksIndexed(count int) {
	ingesterBlocksIndexedTotal.WithLabelValues(m.network, m.source).Add(float64(count))
}
