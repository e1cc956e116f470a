package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "caiso_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	periodTotal  *prometheus.CounterVec
	recordsTotal *prometheus.CounterVec

	exportTotal *prometheus.CounterVec
)

// Init registers the pull metrics with the default registry.
// Observe* calls before Init are no-ops.
func Init() {
	registerOnce.Do(func() {
		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_requests_total",
				Help: "Total report fetches by source and result",
			},
			[]string{"source", "result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Report fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)
		periodTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "periods_total",
				Help: "Total pulled periods by pipeline and status",
			},
			[]string{"pipeline", "status"},
		)
		recordsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_total",
				Help: "Total rows or records extracted by pipeline",
			},
			[]string{"pipeline"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total output files written by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			fetchTotal,
			fetchLatency,
			periodTotal,
			recordsTotal,
			exportTotal,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one HTTP fetch.
func ObserveFetch(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(source, result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// ObservePeriod records the outcome of one pulled period.
func ObservePeriod(pipeline, status string, records int) {
	if periodTotal != nil {
		periodTotal.WithLabelValues(pipeline, status).Inc()
	}
	if recordsTotal != nil && records > 0 {
		recordsTotal.WithLabelValues(pipeline).Add(float64(records))
	}
}

// ObserveExport records one written output file.
func ObserveExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
