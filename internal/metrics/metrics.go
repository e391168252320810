// Package metrics defines Prometheus metrics for rankguard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rankguard"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health gauges updated by the HTTP middleware.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the liveness endpoint last returned success (1) or failure (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the readiness endpoint last returned success (1) or failure (0).",
	})
)

// Tracking cycle metrics.
var (
	TrackingCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_cycles_total",
		Help:      "Total number of tracking cycles run.",
	})

	TrackingCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tracking_cycle_duration_seconds",
		Help:      "Duration of tracking cycles in seconds.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	KeywordLookupErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keyword_lookup_errors_total",
		Help:      "Total number of failed keyword rank lookups.",
	})

	RankDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rank_distribution",
		Help:      "Distribution of observed keyword ranks.",
		Buckets:   []float64{1, 3, 10, 20, 30, 50, 100, 150, 250},
	})
)

// iTunes API metrics.
var (
	ITunesAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "itunes_api_calls_total",
		Help:      "Total cumulative iTunes Search API calls.",
	})

	ITunesDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "itunes_daily_usage",
		Help:      "Current daily iTunes API call count within the rolling 24-hour window.",
	})

	ITunesDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "itunes_daily_limit_hits_total",
		Help:      "Total number of times the daily iTunes API limit was reached.",
	})
)

// Alert metrics.
var (
	AlertsClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_classified_total",
		Help:      "Total number of alerts surfaced, by priority.",
	}, []string{"priority"})

	AlertsSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of rank changes suppressed as noise.",
	})

	PatternsDetectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patterns_detected_total",
		Help:      "Total number of batch-level patterns detected, by type.",
	}, []string{"type"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
