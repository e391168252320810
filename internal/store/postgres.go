package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/asoguard/rankguard/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateKeyword inserts a tracked keyword, re-enabling it on conflict.
func (s *PostgresStore) CreateKeyword(ctx context.Context, k *domain.TrackedKeyword) error {
	args := pgx.NamedArgs{
		"keyword": k.Keyword,
		"country": k.Country,
		"enabled": k.Enabled,
	}

	return s.pool.QueryRow(ctx, queryCreateKeyword, args).Scan(
		&k.ID, &k.CreatedAt, &k.UpdatedAt,
	)
}

// GetKeyword retrieves a tracked keyword by its ID.
func (s *PostgresStore) GetKeyword(ctx context.Context, id string) (*domain.TrackedKeyword, error) {
	k := &domain.TrackedKeyword{}
	err := s.pool.QueryRow(ctx, queryGetKeyword, id).Scan(
		&k.ID, &k.Keyword, &k.Country, &k.Enabled, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// ListKeywords returns all tracked keywords, optionally enabled only.
func (s *PostgresStore) ListKeywords(
	ctx context.Context,
	enabledOnly bool,
) ([]domain.TrackedKeyword, error) {
	query := queryListKeywordsAll
	if enabledOnly {
		query = queryListKeywordsEnabled
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying keywords: %w", err)
	}
	defer rows.Close()

	var keywords []domain.TrackedKeyword
	for rows.Next() {
		var k domain.TrackedKeyword
		if err := rows.Scan(
			&k.ID, &k.Keyword, &k.Country, &k.Enabled, &k.CreatedAt, &k.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		keywords = append(keywords, k)
	}

	return keywords, rows.Err()
}

// SetKeywordEnabled enables or disables a tracked keyword.
func (s *PostgresStore) SetKeywordEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := s.pool.Exec(ctx, querySetKeywordEnabled, id, enabled)
	if err != nil {
		return fmt.Errorf("setting keyword enabled: %w", err)
	}
	return nil
}

// DeleteKeyword removes a tracked keyword by its ID.
func (s *PostgresStore) DeleteKeyword(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, queryDeleteKeyword, id)
	if err != nil {
		return fmt.Errorf("deleting keyword: %w", err)
	}
	return nil
}

// InsertObservation appends one rank measurement.
func (s *PostgresStore) InsertObservation(ctx context.Context, o *domain.RankObservation) error {
	args := pgx.NamedArgs{
		"keyword":     o.Keyword,
		"country":     o.Country,
		"rank":        int(o.Rank),
		"observed_at": o.ObservedAt,
	}

	if _, err := s.pool.Exec(ctx, queryInsertObservation, args); err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}
	return nil
}

// LatestObservation returns the most recent observation for the pair, or
// (nil, nil) when the keyword has never been observed.
func (s *PostgresStore) LatestObservation(
	ctx context.Context,
	keyword, country string,
) (*domain.RankObservation, error) {
	o := &domain.RankObservation{}
	err := s.pool.QueryRow(ctx, queryLatestObservation, keyword, country).Scan(
		&o.Keyword, &o.Country, &o.Rank, &o.ObservedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest observation: %w", err)
	}
	return o, nil
}

// ObservationHistory returns recent observations for the pair, newest first.
func (s *PostgresStore) ObservationHistory(
	ctx context.Context,
	keyword, country string,
	limit int,
) ([]domain.RankObservation, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.pool.Query(ctx, queryObservationHistory, keyword, country, limit)
	if err != nil {
		return nil, fmt.Errorf("querying observation history: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// LatestObservations returns the newest observation per keyword/country pair.
func (s *PostgresStore) LatestObservations(ctx context.Context) ([]domain.RankObservation, error) {
	rows, err := s.pool.Query(ctx, queryLatestObservations)
	if err != nil {
		return nil, fmt.Errorf("querying latest observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// PruneObservations deletes observations older than the retention window.
func (s *PostgresStore) PruneObservations(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	tag, err := s.pool.Exec(ctx, queryPruneObservations, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning observations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertAlertRecords stores the audit copies of one cycle's surfaced alerts.
func (s *PostgresStore) InsertAlertRecords(
	ctx context.Context,
	records []domain.AlertRecord,
) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range records {
		r := &records[i]
		batch.Queue(queryInsertAlertRecord, pgx.NamedArgs{
			"type":          string(r.Type),
			"keyword":       r.Keyword,
			"country":       r.Country,
			"previous_rank": r.PreviousRank,
			"current_rank":  r.CurrentRank,
			"delta":         r.Delta,
			"priority":      string(r.Priority),
		})
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting alert record: %w", err)
		}
	}
	return nil
}

// ListAlertRecords queries alert records with optional filters, returning
// results and the total count matching the filters.
func (s *PostgresStore) ListAlertRecords(
	ctx context.Context,
	opts *RecordQuery,
) ([]domain.AlertRecord, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting alert records: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying alert records: %w", err)
	}
	defer rows.Close()

	records, err := scanAlertRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// AlertRecordsSince returns every alert record created at or after since,
// oldest first. The daily digest builds from this window.
func (s *PostgresStore) AlertRecordsSince(
	ctx context.Context,
	since time.Time,
) ([]domain.AlertRecord, error) {
	rows, err := s.pool.Query(ctx, queryAlertRecordsSince, since)
	if err != nil {
		return nil, fmt.Errorf("querying alert records since: %w", err)
	}
	defer rows.Close()

	return scanAlertRecords(rows)
}

// PruneAlertRecords deletes alert records older than the retention window.
func (s *PostgresStore) PruneAlertRecords(
	ctx context.Context,
	olderThan time.Duration,
) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	tag, err := s.pool.Exec(ctx, queryPruneAlertRecords, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning alert records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertJobRun records the start of a scheduled job and returns its UUID.
func (s *PostgresStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertJobRun, jobName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting job run: %w", err)
	}
	return id, nil
}

// CompleteJobRun marks a job run as finished with the given status and metadata.
func (s *PostgresStore) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	_, err := s.pool.Exec(ctx, queryCompleteJobRun, id, status, errText, rowsAffected)
	if err != nil {
		return fmt.Errorf("completing job run: %w", err)
	}
	return nil
}

// ListJobRuns returns the most recent runs for a specific job, newest first.
func (s *PostgresStore) ListJobRuns(
	ctx context.Context,
	jobName string,
	limit int,
) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListJobRuns, jobName, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

// ListLatestJobRuns returns the single most recent run for each distinct job name.
func (s *PostgresStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	rows, err := s.pool.Query(ctx, queryListLatestJobRuns)
	if err != nil {
		return nil, fmt.Errorf("querying latest job runs: %w", err)
	}
	defer rows.Close()

	return scanJobRuns(rows)
}

func scanObservations(rows pgx.Rows) ([]domain.RankObservation, error) {
	var observations []domain.RankObservation
	for rows.Next() {
		var o domain.RankObservation
		if err := rows.Scan(&o.Keyword, &o.Country, &o.Rank, &o.ObservedAt); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

func scanAlertRecords(rows pgx.Rows) ([]domain.AlertRecord, error) {
	var records []domain.AlertRecord
	for rows.Next() {
		var r domain.AlertRecord
		if err := rows.Scan(
			&r.ID, &r.Type, &r.Keyword, &r.Country, &r.PreviousRank,
			&r.CurrentRank, &r.Delta, &r.Priority, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning alert record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanJobRuns scans rows from a job_runs query into a slice.
func scanJobRuns(rows pgx.Rows) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	for rows.Next() {
		var r domain.JobRun
		if err := rows.Scan(
			&r.ID, &r.JobName, &r.StartedAt, &r.CompletedAt,
			&r.Status, &r.ErrorText, &r.RowsAffected,
		); err != nil {
			return nil, fmt.Errorf("scanning job run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
