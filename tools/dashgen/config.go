package main

import "errors"

// KnownMetrics is the set of metric names exported by rankguard plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"rankguard_http_request_duration_seconds": true,
	"rankguard_http_requests_total":           true,

	// Health metrics.
	"rankguard_healthz_up": true,
	"rankguard_readyz_up":  true,

	// Tracking cycle metrics.
	"rankguard_tracking_cycles_total":           true,
	"rankguard_tracking_cycle_duration_seconds": true,
	"rankguard_keyword_lookup_errors_total":     true,
	"rankguard_rank_distribution":               true,

	// iTunes API metrics.
	"rankguard_itunes_api_calls_total":        true,
	"rankguard_itunes_daily_usage":            true,
	"rankguard_itunes_daily_limit_hits_total": true,

	// Alert metrics.
	"rankguard_alerts_classified_total":     true,
	"rankguard_alerts_suppressed_total":     true,
	"rankguard_patterns_detected_total":     true,
	"rankguard_notification_failures_total": true,

	// Recording rules.
	"rankguard:http_requests:rate5m":    true,
	"rankguard:http_errors:rate5m":      true,
	"rankguard:itunes_api_calls:rate5m": true,
	"rankguard:lookup_errors:rate5m":    true,
	"rankguard:alerts_classified:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
