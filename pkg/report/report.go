// Package report renders alert batches into the two delivery formats:
// the immediate grouped message and the periodic digest. Output is
// Markdown-style text built from structured sections, so channel
// adapters (Telegram, Slack) can either send the rendered text or
// re-render the sections in their own markup.
package report

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// Caps bound how many alerts each message shows per tier. Overflow is
// silently truncated in batch order; nothing is re-sorted.
type Caps struct {
	TierLimit        int `yaml:"tier_limit"`        // per-tier cap in the grouped message
	DigestLimit      int `yaml:"digest_limit"`      // medium-change cap in the digest
	OpportunityLimit int `yaml:"opportunity_limit"` // opportunity callouts in the digest
}

// DefaultCaps returns the default display limits.
func DefaultCaps() Caps {
	return Caps{TierLimit: 5, DigestLimit: 10, OpportunityLimit: 3}
}

// Section is one titled block of message lines.
type Section struct {
	Title string
	Lines []string
}

// Formatter builds grouped and digest messages from alert batches.
type Formatter struct {
	caps    Caps
	nowFunc func() time.Time
}

// Option configures the Formatter.
type Option func(*Formatter)

// WithNowFunc overrides the clock, for reproducible headers in tests.
func WithNowFunc(f func() time.Time) Option {
	return func(fm *Formatter) {
		fm.nowFunc = f
	}
}

// NewFormatter creates a Formatter with the given caps.
func NewFormatter(caps Caps, opts ...Option) *Formatter {
	f := &Formatter{
		caps:    caps,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Grouped renders the immediate alert message. The second return is
// false when there is nothing to deliver; callers must check it before
// handing the text to a notifier.
func (f *Formatter) Grouped(alerts []domain.Alert, findings []domain.PatternFinding) (string, bool) {
	if len(alerts) == 0 && len(findings) == 0 {
		return "", false
	}

	sections := f.GroupedSections(alerts, findings)

	var b strings.Builder
	b.WriteString("🔔 *SMART ALERTS*\n")
	b.WriteString("📅 " + f.nowFunc().Format("02/01/2006 15:04") + "\n")
	writeSections(&b, sections)
	b.WriteString(fmt.Sprintf("\n_Total: %d alerts_", len(alerts)))

	return b.String(), true
}

// GroupedSections builds the structured body of the grouped message,
// in fixed order: patterns, critical, high, celebration, medium
// summary. Empty sections are omitted entirely.
func (f *Formatter) GroupedSections(alerts []domain.Alert, findings []domain.PatternFinding) []Section {
	var sections []Section

	if s, ok := patternSection(findings); ok {
		sections = append(sections, s)
	}

	grouped := groupByPriority(alerts)

	if critical := grouped[domain.PriorityCritical]; len(critical) > 0 {
		sections = append(sections, f.tierSection(
			"🚨 *CRITICAL* (immediate action)", critical, true,
		))
	}
	if high := grouped[domain.PriorityHigh]; len(high) > 0 {
		sections = append(sections, f.tierSection("⚠️ *IMPORTANT*", high, false))
	}
	if wins := grouped[domain.PriorityCelebration]; len(wins) > 0 {
		sections = append(sections, f.tierSection("🎉 *WINS*", wins, false))
	}


	if medium := grouped[domain.PriorityMedium]; len(medium) > 0 {
		sections = append(sections, Section{
			Lines: []string{fmt.Sprintf(
				"📊 %d medium changes (see daily digest)", len(medium),
			)},
		})
	}

	return sections
}

// Digest renders the periodic summary of medium and low tier changes,
// plus the day's momentum and near-milestone opportunities. The second
// return is false when the period produced nothing worth summarizing.
func (f *Formatter) Digest(alerts []domain.Alert) (string, bool) {
	grouped := groupByPriority(alerts)
	medium := grouped[domain.PriorityMedium]
	low := grouped[domain.PriorityLow]

	if len(medium) == 0 && len(low) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("📊 *DAILY DIGEST*\n")
	b.WriteString("📅 " + f.nowFunc().Format("02/01/2006") + "\n")
	writeSections(&b, f.digestSections(alerts, medium, low))
	b.WriteString("\n_Sent automatically by Rank Guard_")

	return b.String(), true
}

func (f *Formatter) digestSections(alerts, medium, low []domain.Alert) []Section {
	var sections []Section

	if len(medium) > 0 {
		s := Section{Title: fmt.Sprintf("📉 *Medium changes* (%d)", len(medium))}
		for i := range medium[:min(len(medium), f.caps.DigestLimit)] {
			a := &medium[i]
			arrow := "⬇️"
			if a.Type == domain.AlertRise {
				arrow = "⬆️"
			}
			s.Lines = append(s.Lines, fmt.Sprintf(
				"%s %s: %s→%s", arrow, a.Keyword, a.PreviousRank, a.CurrentRank,
			))
		}
		sections = append(sections, s)
	}

	if len(low) > 0 {
		sections = append(sections, Section{
			Lines: []string{fmt.Sprintf("ℹ️ Minor changes: %d", len(low))},
		})
	}

	sections = append(sections, momentumSection(alerts))

	if s, ok := f.opportunitySection(alerts); ok {
		sections = append(sections, s)
	}

	return sections
}

// momentumSection summarizes the day's direction: how many keywords
// improved, how many worsened, and the net trend.
func momentumSection(alerts []domain.Alert) Section {
	improved, worsened := 0, 0
	for i := range alerts {
		switch alerts[i].Type {
		case domain.AlertRise:
			improved++
		case domain.AlertDrop:
			worsened++
		}
	}

	net := improved - worsened
	trend := "neutral 🟡"
	switch {
	case net > 0:
		trend = fmt.Sprintf("%+d net 🟢 POSITIVE", net)
	case net < 0:
		trend = fmt.Sprintf("%+d net 🔴 NEGATIVE", net)
	}

	return Section{
		Title: "📈 *Momentum*",
		Lines: []string{
			fmt.Sprintf("• %d keywords improved", improved),
			fmt.Sprintf("• %d keywords worsened", worsened),
			"• Trend: " + trend,
		},
	}
}

// opportunitySection calls out rises that landed just outside a
// milestone band. The bands here are a presentation heuristic,
// deliberately independent of the classification thresholds.
func (f *Formatter) opportunitySection(alerts []domain.Alert) (Section, bool) {
	s := Section{Title: "🎯 *Opportunities*"}

	for i := range alerts {
		if len(s.Lines) >= f.caps.OpportunityLimit*2 {
			break
		}
		a := &alerts[i]
		if a.Type != domain.AlertRise {
			continue
		}

		var reason string
		switch {
		case a.CurrentRank > 10 && a.CurrentRank <= 20:
			reason = "Close to the TOP 10, almost there"
		case a.CurrentRank > 30 && a.CurrentRank <= 50:
			reason = "Close to the TOP 30, push harder"
		default:
			continue
		}

		s.Lines = append(s.Lines,
			fmt.Sprintf("📈 *%s* %s→%s", a.Keyword, a.PreviousRank, a.CurrentRank),
			"   "+reason,
		)
	}

	if len(s.Lines) == 0 {
		return Section{}, false
	}
	return s, true
}

func patternSection(findings []domain.PatternFinding) (Section, bool) {
	if len(findings) == 0 {
		return Section{}, false
	}

	s := Section{Title: "⚡️ *PATTERNS DETECTED*"}
	for i := range findings {
		s.Lines = append(s.Lines, findings[i].Message)
		if len(findings[i].PossibleCauses) > 0 {
			s.Lines = append(s.Lines, "🔍 Cause: "+findings[i].PossibleCauses[0])
		}
	}
	return s, true
}

// tierSection renders up to TierLimit alerts of one tier, in batch
// order. The full form (critical tier) adds impact, first insight, and
// first recommended action; other tiers get the keyword/rank lines
// only.
func (f *Formatter) tierSection(title string, alerts []domain.Alert, full bool) Section {
	s := Section{Title: title}

	for i := range alerts[:min(len(alerts), f.caps.TierLimit)] {
		a := &alerts[i]
		s.Lines = append(s.Lines,
			fmt.Sprintf("%s *%s* (%s)", a.Tag, a.Keyword, a.Country),
			"   "+a.Transition(),
		)
		if !full {
			continue
		}
		if a.EstimatedImpact != nil {
			s.Lines = append(s.Lines, "   📊 Impact: "+*a.EstimatedImpact)
		}
		if len(a.Insights) > 0 {
			s.Lines = append(s.Lines, "   💡 "+a.Insights[0])
		}
		if len(a.Actions) > 0 {
			s.Lines = append(s.Lines, "   ✅ "+a.Actions[0])
		}
	}

	return s
}

// groupByPriority partitions alerts per tier, preserving batch order
// within each tier.
func groupByPriority(alerts []domain.Alert) map[domain.Priority][]domain.Alert {
	grouped := make(map[domain.Priority][]domain.Alert)
	for i := range alerts {
		if alerts[i].Priority == domain.PrioritySuppressed {
			continue
		}
		grouped[alerts[i].Priority] = append(grouped[alerts[i].Priority], alerts[i])
	}
	return grouped
}

func writeSections(b *strings.Builder, sections []Section) {
	for i := range sections {
		b.WriteString("\n")
		if sections[i].Title != "" {
			b.WriteString(sections[i].Title + "\n")
		}
		for _, line := range sections[i].Lines {
			b.WriteString(line + "\n")
		}
	}
}
