// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Snapshot pipeline metrics
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_loads_total",
			Help: "Snapshot loads by category and outcome (ok, no_data, parse_error, unknown_country, error)",
		},
		[]string{"category", "outcome"},
	)

	ViewModelBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_model_builds_total",
			Help: "Country view models built by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	ViewModelBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "view_model_build_duration_seconds",
			Help:    "Time to load, normalize and derive a country view model",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// Cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_model_cache_lookups_total",
			Help: "View model cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	WarmupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_warmup_runs_total",
			Help: "Cache warm-up runs by status",
		},
		[]string{"status"},
	)
)
