// Package engine orchestrates the tracking pipeline: look up ranks,
// persist observations, classify and enrich changes, detect patterns,
// and deliver the rendered messages.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asoguard/rankguard/internal/itunes"
	"github.com/asoguard/rankguard/internal/metrics"
	"github.com/asoguard/rankguard/internal/notify"
	"github.com/asoguard/rankguard/internal/store"
	"github.com/asoguard/rankguard/pkg/alerting"
	"github.com/asoguard/rankguard/pkg/report"
	domain "github.com/asoguard/rankguard/pkg/types"
)

// Job names recorded in the job_runs audit table.
const (
	jobTracking = "tracking"
	jobDigest   = "digest"
	jobPrune    = "prune"
)

// RankLookup resolves a keyword's current chart position.
type RankLookup interface {
	Rank(ctx context.Context, keyword, country string) (domain.Rank, error)
}

// Engine runs the tracking, digest, and retention jobs against injected
// collaborators.
type Engine struct {
	store    store.Store
	lookup   RankLookup
	notifier notify.Notifier
	log      *slog.Logger

	classifier *alerting.Classifier
	enricher   *alerting.Enricher
	patterns   alerting.PatternThresholds
	formatter  *report.Formatter

	stagger            time.Duration
	observationMaxAge  time.Duration
	alertRecordMaxAge  time.Duration
	digestWindow       time.Duration
	nowFunc            func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	l RankLookup,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:             s,
		lookup:            l,
		notifier:          n,
		log:               slog.Default(),
		classifier:        alerting.NewClassifier(alerting.DefaultThresholds()),
		enricher:          alerting.NewEnricher(alerting.DefaultImpactWeights()),
		patterns:          alerting.DefaultPatternThresholds(),
		formatter:         report.NewFormatter(report.DefaultCaps()),
		stagger:           2 * time.Second,
		observationMaxAge: 180 * 24 * time.Hour,
		alertRecordMaxAge: 90 * 24 * time.Hour,
		digestWindow:      24 * time.Hour,
		nowFunc:           time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClassifier sets the rule table applied to rank changes.
func WithClassifier(c *alerting.Classifier) EngineOption {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithEnricher sets the enricher that decorates classified alerts.
func WithEnricher(en *alerting.Enricher) EngineOption {
	return func(e *Engine) {
		e.enricher = en
	}
}

// WithPatternThresholds sets the batch-level pattern trigger counts.
func WithPatternThresholds(t alerting.PatternThresholds) EngineOption {
	return func(e *Engine) {
		e.patterns = t
	}
}

// WithFormatter sets the message formatter.
func WithFormatter(f *report.Formatter) EngineOption {
	return func(e *Engine) {
		e.formatter = f
	}
}

// WithLookupStagger sets the delay between per-keyword API lookups.
func WithLookupStagger(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.stagger = d
	}
}

// WithRetention sets how long observations and alert records are kept.
func WithRetention(observations, alertRecords time.Duration) EngineOption {
	return func(e *Engine) {
		e.observationMaxAge = observations
		e.alertRecordMaxAge = alertRecords
	}
}

// WithNowFunc overrides the clock, for deterministic tests.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// RunTrackingCycle scans every enabled keyword once: look up the current
// rank, store the observation, and push surfaced alerts through
// enrichment, pattern detection, and delivery. Per-keyword failures are
// logged and skipped; only batch-level failures abort the cycle.
func (eng *Engine) RunTrackingCycle(ctx context.Context) error {
	start := time.Now()
	metrics.TrackingCyclesTotal.Inc()
	defer func() {
		metrics.TrackingCycleDuration.Observe(time.Since(start).Seconds())
	}()

	jobID := eng.startJob(ctx, jobTracking)

	keywords, err := eng.store.ListKeywords(ctx, true)
	if err != nil {
		eng.completeJob(ctx, jobID, "failed", err, 0)
		return fmt.Errorf("listing keywords: %w", err)
	}

	var alerts []domain.Alert
	observed := 0

	for i := range keywords {
		if ctx.Err() != nil {
			eng.completeJob(ctx, jobID, "canceled", ctx.Err(), observed)
			return ctx.Err()
		}

		kw := &keywords[i]
		alert, ok, scanErr := eng.scanKeyword(ctx, kw)
		if scanErr != nil {
			if errors.Is(scanErr, itunes.ErrDailyLimitReached) {
				eng.log.Warn("daily API limit reached, stopping cycle",
					"keyword", kw.Keyword,
					"scanned", observed,
				)
				break
			}
			eng.log.Error("keyword scan failed",
				"keyword", kw.Keyword,
				"country", kw.Country,
				"error", scanErr,
			)
			metrics.KeywordLookupErrorsTotal.Inc()
			continue
		}
		observed++
		if ok {
			alerts = append(alerts, alert)
		}

		// Stagger between lookups to avoid API bursts.
		if i < len(keywords)-1 && eng.stagger > 0 {
			select {
			case <-ctx.Done():
				eng.completeJob(ctx, jobID, "canceled", ctx.Err(), observed)
				return ctx.Err()
			case <-time.After(eng.stagger):
			}
		}
	}

	findings := alerting.DetectPatterns(alerts, eng.patterns)
	for i := range findings {
		metrics.PatternsDetectedTotal.WithLabelValues(string(findings[i].Type)).Inc()
	}

	eng.deliverGrouped(ctx, alerts, findings)

	if err := eng.store.InsertAlertRecords(ctx, toRecords(alerts)); err != nil {
		eng.log.Error("persisting alert records failed", "error", err)
	}

	eng.completeJob(ctx, jobID, "succeeded", nil, observed)

	eng.log.Info("tracking cycle complete",
		"keywords", len(keywords),
		"observed", observed,
		"alerts", len(alerts),
		"patterns", len(findings),
	)
	return nil
}

// scanKeyword performs one keyword's lookup/persist/classify step. The
// bool reports whether a non-suppressed alert was produced.
func (eng *Engine) scanKeyword(
	ctx context.Context,
	kw *domain.TrackedKeyword,
) (domain.Alert, bool, error) {
	rank, err := eng.lookup.Rank(ctx, kw.Keyword, kw.Country)
	if err != nil {
		return domain.Alert{}, false, fmt.Errorf("looking up rank: %w", err)
	}

	if rank.IsRanked() {
		metrics.RankDistribution.Observe(float64(rank))
	}

	previous, err := eng.store.LatestObservation(ctx, kw.Keyword, kw.Country)
	if err != nil {
		return domain.Alert{}, false, fmt.Errorf("loading previous observation: %w", err)
	}

	current := domain.RankObservation{
		Keyword:    kw.Keyword,
		Country:    kw.Country,
		Rank:       rank,
		ObservedAt: eng.nowFunc(),
	}
	if err := eng.store.InsertObservation(ctx, &current); err != nil {
		return domain.Alert{}, false, fmt.Errorf("storing observation: %w", err)
	}

	change := alerting.ComputeChange(previous, current)
	alert, ok := eng.classifier.Classify(change)
	if !ok {
		metrics.AlertsSuppressedTotal.Inc()
		return domain.Alert{}, false, nil
	}

	alert = eng.enricher.Enrich(alert)
	metrics.AlertsClassifiedTotal.WithLabelValues(string(alert.Priority)).Inc()
	return alert, true, nil
}

// deliverGrouped sends the immediate message when the batch holds
// anything urgent. Medium-only batches wait for the digest.
func (eng *Engine) deliverGrouped(
	ctx context.Context,
	alerts []domain.Alert,
	findings []domain.PatternFinding,
) {
	urgent := len(findings) > 0
	for i := range alerts {
		if alerts[i].Priority.Immediate() {
			urgent = true
			break
		}
	}
	if !urgent {
		return
	}

	msg, ok := eng.formatter.Grouped(alerts, findings)
	if !ok {
		return
	}

	if err := eng.notifier.Send(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.log.Error("sending grouped alert failed", "error", err)
	}
}

// RunDailyDigest renders and delivers the summary of the last digest
// window's recorded alerts. A window with nothing worth summarizing
// sends nothing.
func (eng *Engine) RunDailyDigest(ctx context.Context) error {
	jobID := eng.startJob(ctx, jobDigest)

	since := eng.nowFunc().Add(-eng.digestWindow)
	records, err := eng.store.AlertRecordsSince(ctx, since)
	if err != nil {
		eng.completeJob(ctx, jobID, "failed", err, 0)
		return fmt.Errorf("loading alert records: %w", err)
	}

	msg, ok := eng.formatter.Digest(fromRecords(records))
	if !ok {
		eng.log.Info("digest window empty, nothing to send", "records", len(records))
		eng.completeJob(ctx, jobID, "succeeded", nil, len(records))
		return nil
	}

	if err := eng.notifier.Send(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		eng.completeJob(ctx, jobID, "failed", err, len(records))
		return fmt.Errorf("sending digest: %w", err)
	}

	eng.completeJob(ctx, jobID, "succeeded", nil, len(records))
	return nil
}

// RunRetentionPrune deletes observations and alert records beyond their
// retention windows.
func (eng *Engine) RunRetentionPrune(ctx context.Context) error {
	jobID := eng.startJob(ctx, jobPrune)

	observations, err := eng.store.PruneObservations(ctx, eng.observationMaxAge)
	if err != nil {
		eng.completeJob(ctx, jobID, "failed", err, 0)
		return fmt.Errorf("pruning observations: %w", err)
	}

	records, err := eng.store.PruneAlertRecords(ctx, eng.alertRecordMaxAge)
	if err != nil {
		eng.completeJob(ctx, jobID, "failed", err, observations)
		return fmt.Errorf("pruning alert records: %w", err)
	}

	eng.completeJob(ctx, jobID, "succeeded", nil, observations+records)

	eng.log.Info("retention prune complete",
		"observations", observations,
		"alert_records", records,
	)
	return nil
}

// startJob records a job start, tolerating audit failures.
func (eng *Engine) startJob(ctx context.Context, name string) string {
	id, err := eng.store.InsertJobRun(ctx, name)
	if err != nil {
		eng.log.Error("recording job start failed", "job", name, "error", err)
		return ""
	}
	return id
}

// completeJob closes out a job run when one was recorded.
func (eng *Engine) completeJob(ctx context.Context, id, status string, jobErr error, rows int) {
	if id == "" {
		return
	}
	errText := ""
	if jobErr != nil {
		errText = jobErr.Error()
	}
	if err := eng.store.CompleteJobRun(ctx, id, status, errText, rows); err != nil {
		eng.log.Error("recording job completion failed", "job_id", id, "error", err)
	}
}

// toRecords flattens surfaced alerts into their audit rows.
func toRecords(alerts []domain.Alert) []domain.AlertRecord {
	records := make([]domain.AlertRecord, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		records = append(records, domain.AlertRecord{
			Type:         a.Type,
			Keyword:      a.Keyword,
			Country:      a.Country,
			PreviousRank: int(a.PreviousRank),
			CurrentRank:  int(a.CurrentRank),
			Delta:        a.Delta,
			Priority:     a.Priority,
		})
	}
	return records
}

// fromRecords rebuilds minimal alerts for digest formatting. Enrichment
// is not reconstructed; the digest renders none of it.
func fromRecords(records []domain.AlertRecord) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(records))
	for i := range records {
		r := &records[i]
		alerts = append(alerts, domain.Alert{
			Type:         r.Type,
			Keyword:      r.Keyword,
			Country:      r.Country,
			PreviousRank: domain.Rank(r.PreviousRank),
			CurrentRank:  domain.Rank(r.CurrentRank),
			Delta:        r.Delta,
			Priority:     r.Priority,
		})
	}
	return alerts
}
