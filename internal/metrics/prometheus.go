package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drishti_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drishti_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// Dialogue metrics
	DialogueCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drishti_dialogue_calls_total",
			Help: "Total number of dialogue inference calls",
		},
		[]string{"model", "status"}, // status: success|error|retry
	)

	DialogueLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drishti_dialogue_latency_seconds",
			Help:    "Dialogue inference latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"model"},
	)

	// Fail-open side channel: fallbacks never surface to clients, so they
	// must be visible here.
	DialogueFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drishti_dialogue_fallbacks_total",
			Help: "Total canned-apology fallbacks after exhausted retries",
		},
	)

	TranslationFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drishti_translation_fallbacks_total",
			Help: "Total translations that fell back to the original text",
		},
		[]string{"reason"}, // reason: disabled|error
	)

	TranslationCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drishti_translation_calls_total",
			Help: "Total external translation calls",
		},
		[]string{"status"},
	)

	// Vision session metrics
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drishti_vision_sessions_active",
			Help: "Current number of active vision sessions",
		},
	)

	SessionCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drishti_vision_cycles_total",
			Help: "Total vision worker cycles by outcome",
		},
		[]string{"status"}, // status: detection|clear|error
	)

	DetectedObjects = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drishti_vision_objects_per_cycle",
			Help:    "Objects detected per vision cycle",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)

	prometheus.MustRegister(DialogueCalls)
	prometheus.MustRegister(DialogueLatency)
	prometheus.MustRegister(DialogueFallbacks)

	prometheus.MustRegister(TranslationFallbacks)
	prometheus.MustRegister(TranslationCalls)

	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionCycles)
	prometheus.MustRegister(DetectedObjects)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request
func RecordRequest(endpoint string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(endpoint, httpStatusClass(status)).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDialogueCall records a dialogue inference attempt
func RecordDialogueCall(model string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DialogueCalls.WithLabelValues(model, status).Inc()
	DialogueLatency.WithLabelValues(model).Observe(duration.Seconds())
}

func httpStatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
