// Package store defines the datastore abstraction for rankguard.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"time"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// RecordQuery defines optional filters for alert record queries.
type RecordQuery struct {
	Priority *string
	Keyword  *string
	Country  *string
	Since    *time.Time
	Limit    int // default 50
	Offset   int
	OrderBy  string // "created_at", "delta"
}

// Store defines all data access operations for rankguard.
type Store interface {
	// Keywords
	CreateKeyword(ctx context.Context, k *domain.TrackedKeyword) error
	GetKeyword(ctx context.Context, id string) (*domain.TrackedKeyword, error)
	ListKeywords(ctx context.Context, enabledOnly bool) ([]domain.TrackedKeyword, error)
	SetKeywordEnabled(ctx context.Context, id string, enabled bool) error
	DeleteKeyword(ctx context.Context, id string) error

	// Observations
	InsertObservation(ctx context.Context, o *domain.RankObservation) error
	// LatestObservation returns the most recent stored observation for
	// the keyword/country pair, or (nil, nil) when none exists yet.
	LatestObservation(ctx context.Context, keyword, country string) (*domain.RankObservation, error)
	ObservationHistory(ctx context.Context, keyword, country string, limit int) ([]domain.RankObservation, error)
	LatestObservations(ctx context.Context) ([]domain.RankObservation, error)

	// Alert audit trail
	InsertAlertRecords(ctx context.Context, records []domain.AlertRecord) error
	ListAlertRecords(ctx context.Context, opts *RecordQuery) ([]domain.AlertRecord, int, error)
	AlertRecordsSince(ctx context.Context, since time.Time) ([]domain.AlertRecord, error)

	// Retention
	PruneObservations(ctx context.Context, olderThan time.Duration) (int, error)
	PruneAlertRecords(ctx context.Context, olderThan time.Duration) (int, error)

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
