package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_rpc_calls_total",
			Help: "JSON-RPC calls issued to the node, by method and result",
		},
		[]string{"method", "result"},
	)

	rpcCallSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketindexor_rpc_call_seconds",
			Help:    "Latency of JSON-RPC calls including retries",
			Buckets: []float64{.005, .025, .1, .25, 1, 2.5, 10, 30},
		},
		[]string{"method"},
	)

	rpcRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_rpc_retries_total",
			Help: "JSON-RPC calls retried after a transient failure",
		},
		[]string{"method"},
	)
)

// observeCall records a finished call. The result label is "ok" or the error class.
func observeCall(method string, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = classifyError(err)
	}

	rpcCalls.WithLabelValues(method, result).Inc()
	if took > 0 {
		rpcCallSeconds.WithLabelValues(method).Observe(took.Seconds())
	}
}

func observeRetry(method string) {
	rpcRetries.WithLabelValues(method).Inc()
}
