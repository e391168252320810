// Package alerting implements the rank-change evaluation core: change
// computation, rule-based alert classification, contextual enrichment,
// and cross-keyword pattern detection. Everything in this package is
// pure and side-effect free; callers own all I/O.
package alerting

import (
	domain "github.com/asoguard/rankguard/pkg/types"
)

// ComputeChange derives the signed rank movement between the previous
// and current observation of one keyword/country pair. A nil previous
// observation means the keyword has never been seen; the returned
// change then has a nil PreviousRank and a nil Delta.
//
// The NotRanked sentinel participates in delta arithmetic as its
// numeric value, which exceeds every real rank, so a disappearance
// reads as a large drop and a first charting as a large rise.
func ComputeChange(prev *domain.RankObservation, cur domain.RankObservation) domain.RankChange {
	change := domain.RankChange{
		Keyword:     cur.Keyword,
		Country:     cur.Country,
		CurrentRank: cur.Rank,
	}

	if prev == nil {
		return change
	}

	prevRank := prev.Rank
	delta := numeric(prevRank) - numeric(cur.Rank)
	change.PreviousRank = &prevRank
	change.Delta = &delta

	return change
}

// numeric maps a rank to the integer used for delta arithmetic,
// substituting the sentinel for anything outside the scanned depth.
func numeric(r domain.Rank) int {
	if r.IsRanked() {
		return int(r)
	}
	return int(domain.NotRanked)
}
