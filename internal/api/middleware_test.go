package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/erazemk/inventory/internal/metrics"
)

func TestLoggingMiddlewareLabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := LoggingMiddleware(mux)

	counter := metrics.RequestCounter.WithLabelValues("418", "GET", "GET /things/{id}")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestLoggingMiddlewareUnmatched(t *testing.T) {
	handler := LoggingMiddleware(http.NotFoundHandler())
	counter := metrics.RequestCounter.WithLabelValues("404", "GET", "unmatched")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
