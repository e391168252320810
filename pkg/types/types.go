// Package domain defines the core business types for rankguard.
package domain

import (
	"fmt"
	"time"
)

// MaxScanDepth is the deepest search result position the lookup service
// inspects. An app that does not chart within this depth is NotRanked.
const MaxScanDepth = 250

// NotRanked is the sentinel rank for an app that did not appear within
// MaxScanDepth results. It is strictly greater than any real rank, so
// delta arithmetic stays monotonic across disappearances.
const NotRanked Rank = 999

// Rank is a 1-based search result position. Smaller is better.
type Rank int

// IsRanked reports whether r is a real chart position rather than the
// NotRanked sentinel.
func (r Rank) IsRanked() bool {
	return r >= 1 && r <= MaxScanDepth
}

// String renders the rank for display: "#12", or "not ranked".
func (r Rank) String() string {
	if !r.IsRanked() {
		return "not ranked"
	}
	return fmt.Sprintf("#%d", int(r))
}

// RankObservation is one measurement of a keyword's position at a point
// in time. Observations are immutable once stored.
type RankObservation struct {
	Keyword    string    `json:"keyword"     db:"keyword"`
	Country    string    `json:"country"     db:"country"`
	Rank       Rank      `json:"rank"        db:"rank"`
	ObservedAt time.Time `json:"observed_at" db:"observed_at"`
}

// RankChange is the signed movement between two observations of the same
// keyword/country pair. PreviousRank is nil when no prior observation
// exists; Delta is nil exactly in that case. Positive delta means the
// keyword improved (moved to a smaller rank number).
type RankChange struct {
	Keyword      string `json:"keyword"`
	Country      string `json:"country"`
	PreviousRank *Rank  `json:"previous_rank,omitempty"`
	CurrentRank  Rank   `json:"current_rank"`
	Delta        *int   `json:"delta,omitempty"`
}

// IsNew reports whether this change has no prior observation to compare
// against.
func (c *RankChange) IsNew() bool {
	return c.PreviousRank == nil
}

// AlertType distinguishes negative from positive movements.
type AlertType string

// Alert type constants.
const (
	AlertDrop AlertType = "drop"
	AlertRise AlertType = "rise"
)

// Priority controls delivery urgency of an alert.
type Priority string

// Priority constants, ordered from most to least urgent. Suppressed
// alerts are discarded before any human-facing output.
const (
	PriorityCritical    Priority = "CRITICAL"
	PriorityHigh        Priority = "HIGH"
	PriorityMedium      Priority = "MEDIUM"
	PriorityLow         Priority = "LOW"
	PriorityCelebration Priority = "CELEBRATION"
	PrioritySuppressed  Priority = "SUPPRESSED"
)

// Immediate reports whether alerts of this priority are delivered in the
// grouped message rather than deferred to the digest.
func (p Priority) Immediate() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityCelebration:
		return true
	default:
		return false
	}
}

// Alert is one classified, enriched rank movement. Insights and Actions
// keep the order the enricher appended them in; EstimatedImpact is nil
// when the keyword ranks too deep for a meaningful estimate.
type Alert struct {
	Type            AlertType `json:"type"`
	Keyword         string    `json:"keyword"`
	Country         string    `json:"country"`
	PreviousRank    Rank      `json:"previous_rank"`
	CurrentRank     Rank      `json:"current_rank"`
	Delta           int       `json:"delta"`
	Priority        Priority  `json:"priority"`
	Tag             string    `json:"tag,omitempty"`
	Insights        []string  `json:"insights,omitempty"`
	Actions         []string  `json:"actions,omitempty"`
	EstimatedImpact *string   `json:"estimated_impact,omitempty"`
}

// Transition renders the rank movement, e.g. "#5 → #19 (-14)".
func (a *Alert) Transition() string {
	return fmt.Sprintf("%s → %s (%+d)", a.PreviousRank, a.CurrentRank, a.Delta)
}

// PatternType identifies a cross-keyword structural finding.
type PatternType string

// Pattern type constants.
const (
	PatternMultipleTopDrops PatternType = "multiple_top_drops"
	PatternCategoryDrop     PatternType = "category_drop"
	PatternPositiveMomentum PatternType = "positive_momentum"
)

// Pattern severity constants.
const (
	SeverityUrgent      = "URGENT"
	SeverityHigh        = "HIGH"
	SeverityCelebration = "CELEBRATION"
)

// PatternFinding is a batch-level observation derived from many alerts,
// distinct from any single keyword's alert.
type PatternFinding struct {
	Type           PatternType `json:"type"`
	Severity       string      `json:"severity"`
	AffectedCount  int         `json:"affected_count"`
	Message        string      `json:"message"`
	PossibleCauses []string    `json:"possible_causes,omitempty"`
	Actions        []string    `json:"actions,omitempty"`
}

// TrackedKeyword is a keyword/country pair the tracker scans each cycle.
type TrackedKeyword struct {
	ID        string    `json:"id"         db:"id"`
	Keyword   string    `json:"keyword"    db:"keyword"`
	Country   string    `json:"country"    db:"country"`
	Enabled   bool      `json:"enabled"    db:"enabled"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AlertRecord is the flattened audit copy of a surfaced alert. It exists
// so the daily digest and the API can query past alerts; the live Alert
// value is discarded after each cycle.
type AlertRecord struct {
	ID           string    `json:"id"            db:"id"`
	Type         AlertType `json:"type"          db:"type"`
	Keyword      string    `json:"keyword"       db:"keyword"`
	Country      string    `json:"country"       db:"country"`
	PreviousRank int       `json:"previous_rank" db:"previous_rank"`
	CurrentRank  int       `json:"current_rank"  db:"current_rank"`
	Delta        int       `json:"delta"         db:"delta"`
	Priority     Priority  `json:"priority"      db:"priority"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}
