package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CyclesRate returns a timeseries panel showing tracking cycles per hour.
func CyclesRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Tracking Cycles / h").
		Description("Completed tracking cycles per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`increase(rankguard_tracking_cycles_total{job="rankguard"}[1h])`,
			"cycles/h", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LookupErrors returns a timeseries panel showing failed keyword lookups
// per minute.
func LookupErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Lookup Errors / min").
		Description("Rate of failed keyword rank lookups per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`rankguard:lookup_errors:rate5m * 60`, "errors/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CycleDuration returns a timeseries panel showing the p95 tracking cycle
// duration.
func CycleDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cycle Duration (p95)").
		Description("95th percentile tracking cycle duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(rankguard_tracking_cycle_duration_seconds_bucket{job="rankguard"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RankDistribution returns a bar gauge panel showing observed ranks
// across histogram buckets.
func RankDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Rank Distribution").
		Description("Distribution of observed keyword ranks (not-ranked counts in the top bucket)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			`sum(increase(rankguard_rank_distribution_bucket{job="rankguard"}[24h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
