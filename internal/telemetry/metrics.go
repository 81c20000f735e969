package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Resolutions counts next-field resolutions served, by outcome reason.
	Resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formflow_resolutions_total",
		Help: "Next-field resolutions by outcome reason",
	}, []string{"reason"})

	// SubmissionsQueued counts responses accepted for delivery.
	SubmissionsQueued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "formflow_submissions_queued_total",
		Help: "Completed responses queued for delivery",
	})

	// SubmissionsDropped counts responses dropped because the queue was full.
	SubmissionsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "formflow_submissions_dropped_total",
		Help: "Completed responses dropped due to a full delivery queue",
	})

	// SSEClients tracks currently connected snapshot event listeners.
	SSEClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sse_clients",
		Help: "Number of currently connected SSE clients",
	})

	// SnapshotForms tracks the number of forms in the current snapshot.
	SnapshotForms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_forms",
		Help: "Number of published forms currently in the in-memory snapshot",
	})
)

func Init() {
	prometheus.MustRegister(httpReqs, httpDur, Resolutions, SubmissionsQueued, SubmissionsDropped, SSEClients, SnapshotForms)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get route pattern if available
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		httpReqs.WithLabelValues(route, r.Method, strconv.Itoa(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
