package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telemetry_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// EntriesIngested counts log entries appended to the store.
	EntriesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_entries_ingested_total",
			Help: "Total number of telemetry entries appended to the store",
		},
	)
	// PayloadsRejected counts ingest payloads refused before touching the store.
	PayloadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_payloads_rejected_total",
			Help: "Total number of rejected telemetry payloads",
		},
		[]string{"reason"},
	)
	// StoreCorruptions counts corrupt stores found and quarantined.
	StoreCorruptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_store_corruptions_total",
			Help: "Total number of corrupt stores quarantined",
		},
	)
	// StoreEntries is the number of entries seen on the last store access.
	StoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_store_entries",
			Help: "Number of entries in the store at last access",
		},
	)
)
