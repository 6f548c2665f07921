package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LeasesOutstanding tracks connections currently checked out, per pool
	LeasesOutstanding = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tvshows_db_leases_outstanding",
			Help: "Number of database connections currently leased",
		},
		[]string{"pool"},
	)

	// LeasesMax exposes the configured bound of each pool
	LeasesMax = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tvshows_db_leases_max",
			Help: "Maximum number of database connections that may be leased at once",
		},
		[]string{"pool"},
	)

	// AcquireDuration tracks how long callers wait for a lease
	AcquireDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tvshows_db_acquire_duration_seconds",
			Help:    "Time spent waiting for a database connection lease",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	// AcquireErrors tracks failed lease acquisitions by pool and reason
	AcquireErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvshows_db_acquire_errors_total",
			Help: "Total number of failed lease acquisitions",
		},
		[]string{"pool", "reason"}, // reason: "exhausted", "unavailable"
	)

	// QueryDuration tracks statement execution time by statement name
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvshows_db_query_duration_seconds",
			Help:    "Duration of bound statement executions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"statement"},
	)

	// QueryErrors tracks failed statement executions by statement name
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvshows_db_query_errors_total",
			Help: "Total number of failed statement executions",
		},
		[]string{"statement"},
	)
)
