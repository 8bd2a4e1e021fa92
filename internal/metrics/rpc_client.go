// Package metrics provides prometheus collectors for the indexer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heavyindex",
		Subsystem: "node_rpc",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"operation", "network", "status"})
	nodeRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heavyindex",
		Subsystem: "node_rpc",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// NodeRPC tracks metrics for RPC calls to the chain node.
type NodeRPC struct {
	network string
}

// NewNodeRPC constructs a metrics collector for node RPC calls.
func NewNodeRPC(network string) *NodeRPC {
	if network == "" {
		network = "unknown"
	}
	return &NodeRPC{network: network}
}

// Observe records a single RPC call outcome and duration.
func (m NodeRPC) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	nodeRPCRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	nodeRPCRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
