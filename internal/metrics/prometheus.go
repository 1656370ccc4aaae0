package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ild_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ild_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// Business metrics
	logsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ild_logs_submitted_total",
			Help: "Total number of health logs submitted",
		},
	)

	logsEdited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ild_logs_edited_total",
			Help: "Total number of health logs edited",
		},
	)

	alertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ild_alerts_raised_total",
			Help: "Total number of alerts frozen into logs",
		},
		[]string{"alert"},
	)

	exportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ild_exports_generated_total",
			Help: "Total number of exports generated",
		},
		[]string{"mode", "format"},
	)

	aqiLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ild_aqi_lookups_total",
			Help: "Total number of air quality lookups",
		},
		[]string{"outcome"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordLogSubmitted counts a new log and each of its alerts
func RecordLogSubmitted(alerts []string) {
	logsSubmitted.Inc()
	for _, a := range alerts {
		alertsRaised.WithLabelValues(a).Inc()
	}
}

// RecordLogEdited counts an edit and the alerts of the edited content
func RecordLogEdited(alerts []string) {
	logsEdited.Inc()
	for _, a := range alerts {
		alertsRaised.WithLabelValues(a).Inc()
	}
}

func RecordExport(mode, format string) {
	exportsGenerated.WithLabelValues(mode, format).Inc()
}

// RecordAQILookup records "ok" or "failed"
func RecordAQILookup(ok bool) {
	outcome := "failed"
	if ok {
		outcome = "ok"
	}
	aqiLookups.WithLabelValues(outcome).Inc()
}
