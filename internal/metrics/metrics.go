package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sadaqah_box",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sadaqah_box",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sadaqah_box",
			Subsystem: "rates",
			Name:      "provider_calls_total",
			Help:      "Rate provider calls by outcome.",
		},
		[]string{"provider", "success"},
	)

	providerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sadaqah_box",
			Subsystem: "rates",
			Name:      "provider_call_duration_seconds",
			Help:      "Duration of rate provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms to ~12s
		},
		[]string{"provider"},
	)

	rateLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sadaqah_box",
			Subsystem: "rates",
			Name:      "lookups_total",
			Help:      "Requested currency codes by how they were served (cache, fetched, cooldown, not_found).",
		},
		[]string{"outcome"},
	)

	donationRouting = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sadaqah_box",
			Subsystem: "donations",
			Name:      "routed_total",
			Help:      "Donations applied to a box aggregate, by bucket.",
		},
		[]string{"bucket"},
	)

	workerTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sadaqah_box",
			Subsystem: "worker",
			Name:      "tasks_total",
			Help:      "Background tasks by final status.",
		},
		[]string{"status"},
	)

	workerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sadaqah_box",
			Subsystem: "worker",
			Name:      "queue_depth",
			Help:      "Tasks waiting in the background queue.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		providerCalls,
		providerDuration,
		rateLookups,
		donationRouting,
		workerTasks,
		workerQueueDepth,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled request. path should be the route template, not the raw URL.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProviderCall records one upstream rate provider call.
func RecordProviderCall(provider string, duration time.Duration, success bool) {
	providerCalls.WithLabelValues(provider, strconv.FormatBool(success)).Inc()
	providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRateLookups adds n codes to the given outcome.
func RecordRateLookups(outcome string, n int) {
	if n <= 0 {
		return
	}
	rateLookups.WithLabelValues(outcome).Add(float64(n))
}

// RecordDonationRouting counts a donation applied to "base" or "extra".
func RecordDonationRouting(bucket string) {
	donationRouting.WithLabelValues(bucket).Inc()
}

// RecordWorkerTask counts a finished background task ("ok", "error", "panic", "dropped", "duplicate").
func RecordWorkerTask(status string) {
	workerTasks.WithLabelValues(status).Inc()
}

// SetWorkerQueueDepth reports the current backlog.
func SetWorkerQueueDepth(n int) {
	workerQueueDepth.Set(float64(n))
}
