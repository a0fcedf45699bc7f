package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Handling outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeNoop    = "noop"
	OutcomePanic   = "panic"
	OutcomeAnomaly = "anomaly"
	OutcomeMissing = "missing"
)

var (
	// Database metrics
	dbQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"db", "operation"},
	)

	dbQueryTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketindexor_db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"db", "operation"},
	)

	dbErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_db_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"db", "error_type"},
	)

	// Event pipeline metrics
	logsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_logs_received_total",
			Help: "Total number of contract logs received by source",
		},
		[]string{"event", "source"},
	)

	eventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_events_handled_total",
			Help: "Total number of decoded events handled by outcome",
		},
		[]string{"event", "outcome"},
	)

	handlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketindexor_handler_duration_seconds",
			Help:    "Time taken by an event handler including metadata resolution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	logsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_logs_skipped_total",
			Help: "Total number of logs skipped before dispatch",
		},
		[]string{"reason"},
	)

	statusAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_status_anomalies_total",
			Help: "Status transitions that the projection state did not expect",
		},
		[]string{"entity", "from", "to"},
	)

	metadataFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_metadata_fetches_total",
			Help: "Total number of content store requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	metadataFetchTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketindexor_metadata_fetch_duration_seconds",
			Help:    "Duration of content store requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// LastProcessedBlock is the persisted block watermark.
	LastProcessedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_last_processed_block",
			Help: "The highest block below which every log has been handled",
		},
	)

	backfillBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketindexor_backfill_blocks_total",
			Help: "Total number of blocks scanned by the catch-up scan",
		},
	)

	activeSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_active_subscriptions",
			Help: "Number of live contract event subscriptions",
		},
	)

	pendingJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_pending_jobs",
			Help: "Number of decoded events waiting for a handler",
		},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketindexor_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticketindexor_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketindexor_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticketindexor_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func DBQueryInc(db string, operation string) {
	dbQueries.WithLabelValues(db, operation).Inc()
}

func DBQueryDuration(db string, operation string, duration time.Duration) {
	dbQueryTime.WithLabelValues(db, operation).Observe(duration.Seconds())
}

func DBErrorsInc(db string, errorType string) {
	dbErrors.WithLabelValues(db, errorType).Inc()
}

func LogReceivedInc(event, source string) {
	logsReceived.WithLabelValues(event, source).Inc()
}

func EventHandledInc(event, outcome string) {
	eventsHandled.WithLabelValues(event, outcome).Inc()
}

func HandlerDurationLog(event string, duration time.Duration) {
	handlerDuration.WithLabelValues(event).Observe(duration.Seconds())
}

func LogSkippedInc(reason string) {
	logsSkipped.WithLabelValues(reason).Inc()
}

func StatusAnomalyInc(entity, from, to string) {
	statusAnomalies.WithLabelValues(entity, from, to).Inc()
}

func MetadataFetchInc(operation, outcome string) {
	metadataFetches.WithLabelValues(operation, outcome).Inc()
}

func MetadataFetchDuration(operation string, duration time.Duration) {
	metadataFetchTime.WithLabelValues(operation).Observe(duration.Seconds())
}

func LastProcessedBlockSet(block uint64) {
	LastProcessedBlock.Set(float64(block))
}

func BackfillBlocksInc(count uint64) {
	backfillBlocks.Add(float64(count))
}

func ActiveSubscriptionsSet(n int) {
	activeSubscriptions.Set(float64(n))
}

func PendingJobsSet(n uint64) {
	pendingJobs.Set(float64(n))
}

func ErrorsInc(component, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
