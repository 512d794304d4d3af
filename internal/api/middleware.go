package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/inventory/internal/metrics"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs HTTP requests with method, path, status, and
// duration, and records them in the request metrics.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.RequestInProgress.WithLabelValues(r.Method).Inc()
		defer metrics.RequestInProgress.WithLabelValues(r.Method).Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		status := strconv.Itoa(rec.status)
		path := routePattern(r)
		metrics.RequestCounter.WithLabelValues(status, r.Method, path).Inc()
		metrics.RequestDuration.WithLabelValues(status, r.Method, path).Observe(elapsed.Seconds())

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", elapsed.Round(time.Millisecond),
		)
	})
}

// routePattern returns the matched mux pattern so metric labels do not
// grow with every id. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}
