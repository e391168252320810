package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the periodic tracking, digest, and prune jobs.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that runs engine jobs on a schedule.
// digestTime is a local-time "HH:MM" at which the daily digest fires.
func NewScheduler(
	eng *Engine,
	trackingInterval time.Duration,
	digestTime string,
	pruneInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+trackingInterval.String(),
		s.runTracking,
	); err != nil {
		return nil, fmt.Errorf("scheduling tracking: %w", err)
	}

	digestSpec, err := digestCronSpec(digestTime)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(digestSpec, s.runDigest); err != nil {
		return nil, fmt.Errorf("scheduling digest: %w", err)
	}

	if _, err := c.AddFunc(
		"@every "+pruneInterval.String(),
		s.runPrune,
	); err != nil {
		return nil, fmt.Errorf("scheduling prune: %w", err)
	}

	return s, nil
}

// digestCronSpec converts "HH:MM" into a daily cron expression.
func digestCronSpec(digestTime string) (string, error) {
	t, err := time.Parse("15:04", digestTime)
	if err != nil {
		return "", fmt.Errorf("parsing digest time %q: %w", digestTime, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runTracking() {
	ctx := context.Background()
	s.log.Info("scheduled tracking cycle starting")
	if err := s.engine.RunTrackingCycle(ctx); err != nil {
		s.log.Error("scheduled tracking cycle failed", "error", err)
	}
}

func (s *Scheduler) runDigest() {
	ctx := context.Background()
	s.log.Info("scheduled digest starting")
	if err := s.engine.RunDailyDigest(ctx); err != nil {
		s.log.Error("scheduled digest failed", "error", err)
	}
}

func (s *Scheduler) runPrune() {
	ctx := context.Background()
	s.log.Info("scheduled prune starting")
	if err := s.engine.RunRetentionPrune(ctx); err != nil {
		s.log.Error("scheduled prune failed", "error", err)
	}
}
