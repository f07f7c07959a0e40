package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updater_check_total",
			Help: "Total manifest checks by result",
		},
		[]string{"result"},
	)

	downloadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updater_download_total",
			Help: "Total package downloads by result",
		},
		[]string{"result"},
	)

	downloadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "updater_download_bytes_total",
			Help: "Total bytes downloaded",
		},
	)

	downloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "updater_download_duration_seconds",
			Help:    "Duration of package downloads",
			Buckets: prometheus.DefBuckets,
		},
	)

	installTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updater_install_total",
			Help: "Total install attempts by result",
		},
		[]string{"result"},
	)

	httpRequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updater_http_requests_total",
			Help: "Total HTTP requests received by the local API",
		},
		[]string{"route"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "updater_http_request_duration_seconds",
			Help:    "Duration of local API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	httpErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updater_http_request_errors_total",
			Help: "Total local API requests answered with status >= 400",
		},
		[]string{"route"},
	)

	totalRequests int64
	totalErrors   int64
)

func init() {
	prometheus.MustRegister(checkTotal)
	prometheus.MustRegister(downloadTotal)
	prometheus.MustRegister(downloadBytesTotal)
	prometheus.MustRegister(downloadDuration)
	prometheus.MustRegister(installTotal)
	prometheus.MustRegister(httpRequestCount)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpErrorCount)
}

func recordCheckResult(result string) {
	checkTotal.WithLabelValues(result).Inc()
}

func recordDownloadResult(result string, bytes int64, seconds float64) {
	downloadTotal.WithLabelValues(result).Inc()
	if bytes > 0 {
		downloadBytesTotal.Add(float64(bytes))
	}
	downloadDuration.Observe(seconds)
}

func recordInstallResult(result string) {
	installTotal.WithLabelValues(result).Inc()
}

// IncrementRequestCount counts one local API request for the route.
func IncrementRequestCount(route string) {
	httpRequestCount.WithLabelValues(route).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

// RecordRequestDuration records the handling time of a local API request.
func RecordRequestDuration(route string, seconds float64) {
	httpRequestDuration.WithLabelValues(route).Observe(seconds)
}

// IncrementErrorCount counts one failed (status >= 400) local API request.
func IncrementErrorCount(route string) {
	httpErrorCount.WithLabelValues(route).Inc()
	atomic.AddInt64(&totalErrors, 1)
}

// GetTotalRequestCount returns requests handled since start, for health output.
func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

// GetTotalErrorCount returns failed requests since start, for health output.
func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&totalErrors)
}
