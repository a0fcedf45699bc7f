package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	maintenancePasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_projection_maintenance_passes_total",
			Help: "Maintenance passes over the projection database by outcome",
		},
		[]string{"outcome"},
	)

	maintenancePassSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketindexor_projection_maintenance_seconds",
			Help:    "Duration of projection maintenance passes",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		},
	)

	maintenanceLastPass = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_projection_maintenance_last_pass_timestamp",
			Help: "Unix time of the last projection maintenance pass",
		},
	)

	maintenanceOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_projection_maintenance_ops_total",
			Help: "SQLite maintenance statements executed, by operation",
		},
		[]string{"op"},
	)

	projectionFileBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_projection_file_bytes",
			Help: "Size of the projection database including its WAL and shared memory files",
		},
	)

	projectionReclaimedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketindexor_projection_reclaimed_bytes_total",
			Help: "Bytes returned to the filesystem by maintenance",
		},
	)
)

// observePass records the outcome of one maintenance pass.
func observePass(took time.Duration, sizeBefore, sizeAfter int64, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	maintenancePasses.WithLabelValues(outcome).Inc()
	maintenancePassSeconds.Observe(took.Seconds())
	maintenanceLastPass.SetToCurrentTime()
	projectionFileBytes.Set(float64(sizeAfter))

	if err == nil && sizeBefore > sizeAfter {
		projectionReclaimedBytes.Add(float64(sizeBefore - sizeAfter))
	}
}

// observeOp counts a maintenance statement, e.g. "vacuum" or "wal_checkpoint_passive".
func observeOp(op string) {
	maintenanceOps.WithLabelValues(op).Inc()
}
