// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Analysis metrics
	AnalysesRun        *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	SwapsAnalyzed      prometheus.Counter
	BotsDetected       prometheus.Counter
	ExcessSellsDropped prometheus.Counter

	// Import metrics
	SwapsImported   prometheus.Counter
	SwapsArchived   prometheus.Counter
	ImportErrors    *prometheus.CounterVec
	ImportBatchSize prometheus.Histogram

	// Persistence metrics
	SnapshotsPersisted  prometheus.Counter
	SnapshotsDuplicated prometheus.Counter

	// API metrics
	HTTPRequestDuration *prometheus.HistogramVec
	WSClientsConnected  prometheus.Gauge
	WSBroadcastsTotal   prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
	LastSuccessfulImport   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_behavior_lab"
	}

	return &Metrics{
		// Analysis metrics
		AnalysesRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of wallet analyses by status",
		}, []string{"status"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wallet analysis duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SwapsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "swaps_total",
			Help:      "Total number of swap rows fed through the analyzer",
		}),
		BotsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "bots_detected_total",
			Help:      "Total number of wallets classified as bots",
		}),
		ExcessSellsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "excess_sells_dropped_total",
			Help:      "Total number of sell events dropped for exceeding tracked buy lots",
		}),

		// Import metrics
		SwapsImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "swaps_total",
			Help:      "Total number of swap rows imported into PostgreSQL",
		}),
		SwapsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "swaps_archived_total",
			Help:      "Total number of swap rows archived to ClickHouse",
		}),
		ImportErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "errors_total",
			Help:      "Total number of import errors by stage",
		}, []string{"stage"}),
		ImportBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "batch_size",
			Help:      "Number of rows per import batch",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
		}),

		// Persistence metrics
		SnapshotsPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "snapshots_total",
			Help:      "Total number of metrics snapshots persisted",
		}),
		SnapshotsDuplicated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "snapshots_duplicate_total",
			Help:      "Total number of snapshot inserts skipped as already persisted",
		}),

		// API metrics
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "ws_clients_connected",
			Help:      "Current number of connected WebSocket clients",
		}),
		WSBroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "ws_broadcasts_total",
			Help:      "Total number of snapshot broadcasts sent over WebSocket",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
		LastSuccessfulImport: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_import_timestamp",
			Help:      "Unix timestamp of last successful import",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAnalysis records one analysis run.
func RecordAnalysis(status string, durationSeconds float64, swapCount int) {
	DefaultMetrics.AnalysesRun.WithLabelValues(status).Inc()
	DefaultMetrics.AnalysisDuration.Observe(durationSeconds)
	DefaultMetrics.SwapsAnalyzed.Add(float64(swapCount))
}

// RecordBotDetected increments the bot counter.
func RecordBotDetected() {
	DefaultMetrics.BotsDetected.Inc()
}

// RecordExcessSellDrops records sell events dropped by the lifecycle ledger.
func RecordExcessSellDrops(n int) {
	if n > 0 {
		DefaultMetrics.ExcessSellsDropped.Add(float64(n))
	}
}

// RecordSnapshotPersisted records a snapshot insert outcome.
func RecordSnapshotPersisted(duplicate bool) {
	if duplicate {
		DefaultMetrics.SnapshotsDuplicated.Inc()
		return
	}
	DefaultMetrics.SnapshotsPersisted.Inc()
}

// RecordImportBatch records one import batch.
func RecordImportBatch(rows int, archived bool) {
	DefaultMetrics.ImportBatchSize.Observe(float64(rows))
	DefaultMetrics.SwapsImported.Add(float64(rows))
	if archived {
		DefaultMetrics.SwapsArchived.Add(float64(rows))
	}
}

// RecordImportError records an import error by stage.
func RecordImportError(stage string) {
	DefaultMetrics.ImportErrors.WithLabelValues(stage).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
