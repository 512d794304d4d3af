// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method"},
	)

	// AccessDecisions counts password checks by capability and outcome
	// ("allow", "deny" or "error").
	AccessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_access_decisions_total",
			Help: "Total number of access-control decisions",
		},
		[]string{"capability", "outcome"},
	)

	// UploadOperations counts upload file writes and removals.
	UploadOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_upload_operations_total",
			Help: "Total number of upload file operations",
		},
		[]string{"operation"},
	)

	// UploadBytes counts bytes written to the upload store.
	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_upload_bytes_total",
			Help: "Total bytes written to the upload store",
		},
	)
)
