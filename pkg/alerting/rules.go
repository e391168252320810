package alerting

import (
	domain "github.com/asoguard/rankguard/pkg/types"
)

// Thresholds holds every numeric constant of the classification rule
// table. All values are overridable through configuration; zero values
// are replaced by the defaults at construction.
type Thresholds struct {
	// Rule 1: top keyword critical drop (tight).
	TopDropRank  int `yaml:"top_drop_rank"`
	TopDropDelta int `yaml:"top_drop_delta"`

	// Rule 2: top keyword critical drop (wide).
	WideDropRank  int `yaml:"wide_drop_rank"`
	WideDropDelta int `yaml:"wide_drop_delta"`

	// Rule 3: good keyword big drop.
	BigDropRank  int `yaml:"big_drop_rank"`
	BigDropDelta int `yaml:"big_drop_delta"`

	// Rule 4: big win.
	BigWinDelta int `yaml:"big_win_delta"`
	BigWinRank  int `yaml:"big_win_rank"`

	// Rule 5: top-10 entry.
	TopEntryRank int `yaml:"top_entry_rank"`

	// Rule 6: good rise.
	GoodRiseDelta int `yaml:"good_rise_delta"`
	GoodRiseRank  int `yaml:"good_rise_rank"`

	// Rule 7: medium keyword change.
	MediumRank     int `yaml:"medium_rank"`
	MediumAbsDelta int `yaml:"medium_abs_delta"`

	// Rule 8: low-value fluctuation (suppressed).
	NoiseRank     int `yaml:"noise_rank"`
	NoiseAbsDelta int `yaml:"noise_abs_delta"`

	// Brand-new keyword with no history: celebrate when it charts at
	// or above this rank, suppress otherwise.
	NewEntryRank int `yaml:"new_entry_rank"`
}

// DefaultThresholds returns the canonical rule constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TopDropRank:    20,
		TopDropDelta:   -3,
		WideDropRank:   50,
		WideDropDelta:  -10,
		BigDropRank:    100,
		BigDropDelta:   -15,
		BigWinDelta:    20,
		BigWinRank:     50,
		TopEntryRank:   10,
		GoodRiseDelta:  10,
		GoodRiseRank:   100,
		MediumRank:     150,
		MediumAbsDelta: 15,
		NoiseRank:      150,
		NoiseAbsDelta:  20,
		NewEntryRank:   10,
	}
}

// Rule is one entry of the ordered classification table. Match receives
// the previous rank, current rank, and delta with the sentinel already
// substituted into the arithmetic.
type Rule struct {
	Name     string
	Priority domain.Priority
	Tag      string
	Match    func(prev, cur, delta int) bool
}

// Rules builds the ordered rule list for the given thresholds. Order
// matters: the classifier takes the first match, so the tight critical
// rules shadow the broader medium and noise rules below them.
func Rules(t Thresholds) []Rule {
	return []Rule{
		{
			Name:     "top_keyword_critical_drop",
			Priority: domain.PriorityCritical,
			Tag:      "🚨",
			Match: func(_, cur, delta int) bool {
				return cur <= t.TopDropRank && delta <= t.TopDropDelta
			},
		},
		{
			Name:     "top_keyword_major_drop",
			Priority: domain.PriorityCritical,
			Tag:      "🚨",
			Match: func(_, cur, delta int) bool {
				return cur <= t.WideDropRank && delta <= t.WideDropDelta
			},
		},
		{
			Name:     "good_keyword_big_drop",
			Priority: domain.PriorityHigh,
			Tag:      "⚠️",
			Match: func(_, cur, delta int) bool {
				return cur <= t.BigDropRank && delta <= t.BigDropDelta
			},
		},
		{
			Name:     "big_win",
			Priority: domain.PriorityCelebration,
			Tag:      "🎉",
			Match: func(_, cur, delta int) bool {
				return delta >= t.BigWinDelta && cur <= t.BigWinRank
			},
		},
		{
			Name:     "top_10_entry",
			Priority: domain.PriorityCelebration,
			Tag:      "🎯",
			Match: func(prev, cur, _ int) bool {
				return prev > t.TopEntryRank && cur <= t.TopEntryRank
			},
		},
		{
			Name:     "good_rise",
			Priority: domain.PriorityHigh,
			Tag:      "📈",
			Match: func(_, cur, delta int) bool {
				return delta >= t.GoodRiseDelta && cur <= t.GoodRiseRank
			},
		},
		{
			Name:     "medium_keyword_change",
			Priority: domain.PriorityMedium,
			Tag:      "📊",
			Match: func(_, cur, delta int) bool {
				return cur <= t.MediumRank && abs(delta) >= t.MediumAbsDelta
			},
		},
		{
			Name:     "bad_keyword_fluctuation",
			Priority: domain.PrioritySuppressed,
			Tag:      "🔇",
			Match: func(_, cur, delta int) bool {
				return cur > t.NoiseRank && abs(delta) < t.NoiseAbsDelta
			},
		},
	}
}

// Classifier applies the ordered rule table to rank changes.
type Classifier struct {
	thresholds Thresholds
	rules      []Rule
}

// NewClassifier creates a Classifier for the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{
		thresholds: t,
		rules:      Rules(t),
	}
}

// Classify evaluates a rank change against the rule table, first match
// wins. The second return is false when the change is suppressed: no
// rule matched, the matching rule is the noise rule, or a brand-new
// keyword charted too deep to be worth announcing.
func (c *Classifier) Classify(change domain.RankChange) (domain.Alert, bool) {
	if change.IsNew() {
		return c.classifyNew(change)
	}

	prev := numeric(*change.PreviousRank)
	cur := numeric(change.CurrentRank)
	delta := *change.Delta

	for _, rule := range c.rules {
		if !rule.Match(prev, cur, delta) {
			continue
		}
		if rule.Priority == domain.PrioritySuppressed {
			return domain.Alert{}, false
		}

		alertType := domain.AlertDrop
		if delta > 0 {
			alertType = domain.AlertRise
		}

		return domain.Alert{
			Type:         alertType,
			Keyword:      change.Keyword,
			Country:      change.Country,
			PreviousRank: *change.PreviousRank,
			CurrentRank:  change.CurrentRank,
			Delta:        delta,
			Priority:     rule.Priority,
			Tag:          rule.Tag,
		}, true
	}

	return domain.Alert{}, false
}

// classifyNew handles a keyword with no prior observation. There is no
// history to compare against, so only a straight-into-the-top entry is
// worth an alert.
func (c *Classifier) classifyNew(change domain.RankChange) (domain.Alert, bool) {
	if !change.CurrentRank.IsRanked() || int(change.CurrentRank) > c.thresholds.NewEntryRank {
		return domain.Alert{}, false
	}

	return domain.Alert{
		Type:         domain.AlertRise,
		Keyword:      change.Keyword,
		Country:      change.Country,
		PreviousRank: domain.NotRanked,
		CurrentRank:  change.CurrentRank,
		Delta:        0,
		Priority:     domain.PriorityCelebration,
		Tag:          "🆕",
	}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
