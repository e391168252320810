package alerting

import (
	"fmt"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// Rank bands for impact estimation and insight selection. The bands are
// fixed; only the per-band weights are configurable.
const (
	topBandRank = 10
	midBandRank = 30
	lowBandRank = 100
)

// ImpactWeights are the synthetic impressions-per-position-per-day
// multipliers used to size a rank movement. They are a rough linear
// proxy, not a measured metric.
type ImpactWeights struct {
	Top int `yaml:"top"` // rank ≤ 10
	Mid int `yaml:"mid"` // rank ≤ 30
	Low int `yaml:"low"` // rank ≤ 100
}

// DefaultImpactWeights returns the default per-band multipliers.
func DefaultImpactWeights() ImpactWeights {
	return ImpactWeights{Top: 100, Mid: 50, Low: 20}
}

// Enricher decorates classified alerts with an estimated traffic
// impact, contextual insights, and recommended next actions.
type Enricher struct {
	weights ImpactWeights
}

// NewEnricher creates an Enricher with the given impact weights.
func NewEnricher(w ImpactWeights) *Enricher {
	return &Enricher{weights: w}
}

// Enrich returns the alert decorated in place. Enrichment is
// deterministic and degrades gracefully: an alert matching no insight
// or action rule is still valid, just sparser.
func (e *Enricher) Enrich(a domain.Alert) domain.Alert {
	e.estimateImpact(&a)

	if a.Type == domain.AlertDrop {
		addDropInsights(&a)
	} else {
		addRiseInsights(&a)
	}

	addRecommendedActions(&a)

	return a
}

// estimateImpact attaches a step-function traffic estimate keyed on the
// current rank band. Keywords deeper than the low band get no estimate.
func (e *Enricher) estimateImpact(a *domain.Alert) {
	var weight int
	switch {
	case a.CurrentRank <= topBandRank:
		weight = e.weights.Top
	case a.CurrentRank <= midBandRank:
		weight = e.weights.Mid
	case a.CurrentRank <= lowBandRank:
		weight = e.weights.Low
	default:
		return
	}

	impact := fmt.Sprintf("~%d impressions/day (est.)", abs(a.Delta)*weight)
	a.EstimatedImpact = &impact
}

func addDropInsights(a *domain.Alert) {
	if a.CurrentRank <= 20 {
		a.Insights = append(a.Insights, "Top keyword losing critical visibility")
	} else if a.CurrentRank <= 50 {
		a.Insights = append(a.Insights, "Important keyword entering the risk zone")
	}

	if abs(a.Delta) >= 10 {
		a.Insights = append(a.Insights, "Significant drop, possible external cause")
	}

	// The top-10 exit is the headline: formatters only surface the
	// first insight, so it goes in front of whatever matched above.
	if a.PreviousRank.IsRanked() && a.PreviousRank <= 10 && a.CurrentRank > 10 {
		a.Insights = append([]string{"⚠️ Exited the top 10"}, a.Insights...)
	}
}

func addRiseInsights(a *domain.Alert) {
	if a.CurrentRank <= 10 {
		a.Insights = append(a.Insights, "Keyword in the premium traffic zone")
	} else if a.CurrentRank <= 30 {
		a.Insights = append(a.Insights, "Keyword in an excellent position")
	}

	if a.Delta >= 20 {
		a.Insights = append(a.Insights, "Exceptional rise, capitalize now")
	}

	if a.PreviousRank > 10 && a.CurrentRank <= 10 {
		a.Insights = append([]string{"🎯 Entered the top 10"}, a.Insights...)
	}
}

func addRecommendedActions(a *domain.Alert) {
	if a.Type == domain.AlertDrop {
		switch {
		case a.CurrentRank <= 20:
			a.Actions = append(a.Actions,
				"Review the last 24-48h of reviews",
				"Verify the metadata is unchanged",
				"Check competitors on this keyword",
			)
		case a.CurrentRank <= 100:
			a.Actions = append(a.Actions,
				"Monitor for the next 2-3 days",
				"Consider a metadata refresh if stale for >30 days",
			)
		}

		if abs(a.Delta) >= 15 {
			a.Actions = append(a.Actions, "Check for a competitor or platform-level event")
		}
		return
	}

	switch {
	case a.CurrentRank <= 10:
		a.Actions = append(a.Actions,
			"Make sure the keyword is in the title",
			"Solicit reviews mentioning this term",
			"Consider increasing ad spend if applicable",
		)
	case a.CurrentRank <= 30:
		a.Actions = append(a.Actions,
			"Reinforce the keyword in subtitle/description",
			"Monitor to hold the gain",
		)
	}
}
