package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest pipeline Prometheus metrics.
var (
	IngestJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfwise",
			Name:      "ingest_jobs_total",
			Help:      "Total ingest jobs by terminal status",
		},
		[]string{"status"}, // "completed" / "failed"
	)

	IngestJobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shelfwise",
			Name:      "ingest_job_duration_seconds",
			Help:      "Ingest job processing duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IngestQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shelfwise",
			Name:      "ingest_queue_depth",
			Help:      "Number of jobs waiting in the ingest queue",
		},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingest metrics. Must be called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestJobsTotal)
	prometheus.MustRegister(IngestJobDuration)
	prometheus.MustRegister(IngestQueueDepth)
	ingestMetricsRegistered = true
}
