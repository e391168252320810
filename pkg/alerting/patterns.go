package alerting

import (
	"fmt"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// PatternThresholds are the minimum alert counts that trigger each
// batch-level finding.
type PatternThresholds struct {
	CoordinatedDrops int `yaml:"coordinated_drops"` // drops at rank ≤ 30
	CategoryDrops    int `yaml:"category_drops"`    // drops within one band
	MomentumRises    int `yaml:"momentum_rises"`    // rises with delta ≥ 10
}

// DefaultPatternThresholds returns the default trigger counts.
func DefaultPatternThresholds() PatternThresholds {
	return PatternThresholds{
		CoordinatedDrops: 3,
		CategoryDrops:    4,
		MomentumRises:    5,
	}
}

// momentumMinDelta is the rise size that counts toward the positive
// momentum pattern.
const momentumMinDelta = 10

// rankBand partitions drop alerts for category-wide detection.
type rankBand struct {
	name string
	min  domain.Rank
	max  domain.Rank
}

var dropBands = []rankBand{
	{name: "TOP 10", min: 1, max: 10},
	{name: "TOP 30", min: 11, max: 30},
	{name: "TOP 100", min: 31, max: 100},
}

// DetectPatterns scans one cycle's worth of surfaced alerts for
// cross-keyword coordination. The three rules are independent; a batch
// can produce zero, one, or all finding types. An empty batch yields an
// empty finding list.
func DetectPatterns(alerts []domain.Alert, t PatternThresholds) []domain.PatternFinding {
	var findings []domain.PatternFinding

	if f, ok := detectCoordinatedDrop(alerts, t.CoordinatedDrops); ok {
		findings = append(findings, f)
	}
	findings = append(findings, detectCategoryDrops(alerts, t.CategoryDrops)...)
	if f, ok := detectPositiveMomentum(alerts, t.MomentumRises); ok {
		findings = append(findings, f)
	}

	return findings
}

func detectCoordinatedDrop(alerts []domain.Alert, threshold int) (domain.PatternFinding, bool) {
	count := 0
	for i := range alerts {
		if alerts[i].Type == domain.AlertDrop && alerts[i].CurrentRank <= 30 {
			count++
		}
	}

	if count < threshold {
		return domain.PatternFinding{}, false
	}

	return domain.PatternFinding{
		Type:          domain.PatternMultipleTopDrops,
		Severity:      domain.SeverityUrgent,
		AffectedCount: count,
		Message: fmt.Sprintf(
			"⚠️ CRITICAL PATTERN: %d top keywords dropped simultaneously", count,
		),
		PossibleCauses: []string{
			"Major competitor release",
			"App Store algorithm change",
			"Recent negative reviews hurting ASO",
			"Recently modified metadata",
		},
		Actions: []string{
			"Urgent competitor analysis",
			"Review the last 48h of reviews",
			"Consider an emergency update",
		},
	}, true
}

func detectCategoryDrops(alerts []domain.Alert, threshold int) []domain.PatternFinding {
	var findings []domain.PatternFinding

	for _, band := range dropBands {
		count := 0
		for i := range alerts {
			a := &alerts[i]
			if a.Type == domain.AlertDrop && a.CurrentRank >= band.min && a.CurrentRank <= band.max {
				count++
			}
		}

		if count < threshold {
			continue
		}

		findings = append(findings, domain.PatternFinding{
			Type:          domain.PatternCategoryDrop,
			Severity:      domain.SeverityHigh,
			AffectedCount: count,
			Message: fmt.Sprintf(
				"📉 Coordinated drop in %s: %d keywords affected", band.name, count,
			),
		})
	}

	return findings
}

func detectPositiveMomentum(alerts []domain.Alert, threshold int) (domain.PatternFinding, bool) {
	count := 0
	for i := range alerts {
		if alerts[i].Type == domain.AlertRise && alerts[i].Delta >= momentumMinDelta {
			count++
		}
	}

	if count < threshold {
		return domain.PatternFinding{}, false
	}

	return domain.PatternFinding{
		Type:          domain.PatternPositiveMomentum,
		Severity:      domain.SeverityCelebration,
		AffectedCount: count,
		Message: fmt.Sprintf(
			"🚀 POSITIVE MOMENTUM: %d keywords rising strongly", count,
		),
		Actions: []string{
			"Capitalize: increase ASO effort",
			"Solicit reviews aggressively",
			"Consider increasing ad spend",
		},
	}, true
}
