package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsAppendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "sessions_appended_total",
		Help:      "Sessions accepted and appended to the log.",
	})

	sessionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "sessions_rejected_total",
		Help:      "Submissions rejected by validation, by violation.",
	}, []string{"reason"})

	sessionsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "sessions_duplicate_total",
		Help:      "Submissions refused as duplicates within the scan window.",
	})

	appendDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "append_duration_seconds",
		Help:      "Time to validate and append one session.",
		Buckets:   prometheus.DefBuckets,
	})

	historyRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "history_requests_total",
		Help:      "Successful history queries.",
	})

	statsScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "putt",
		Subsystem: "api",
		Name:      "stats_scan_duration_seconds",
		Help:      "Time for one full-log stats scan.",
		Buckets:   prometheus.DefBuckets,
	})
)
