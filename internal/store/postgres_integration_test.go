//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/asoguard/rankguard/internal/store"
	domain "github.com/asoguard/rankguard/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rankguard_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Keywords(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	k := &domain.TrackedKeyword{Keyword: "bible chat", Country: "US", Enabled: true}
	require.NoError(t, s.CreateKeyword(ctx, k))
	assert.NotEmpty(t, k.ID)

	got, err := s.GetKeyword(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, "bible chat", got.Keyword)
	assert.True(t, got.Enabled)

	// Upsert on the same pair keeps one row.
	dup := &domain.TrackedKeyword{Keyword: "bible chat", Country: "US", Enabled: false}
	require.NoError(t, s.CreateKeyword(ctx, dup))
	assert.Equal(t, k.ID, dup.ID)

	all, err := s.ListKeywords(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	enabled, err := s.ListKeywords(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	require.NoError(t, s.SetKeywordEnabled(ctx, k.ID, true))
	enabled, err = s.ListKeywords(ctx, true)
	require.NoError(t, err)
	assert.Len(t, enabled, 1)

	require.NoError(t, s.DeleteKeyword(ctx, k.ID))
	all, err = s.ListKeywords(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostgresStore_Observations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	// No history yet.
	prev, err := s.LatestObservation(ctx, "bible chat", "US")
	require.NoError(t, err)
	assert.Nil(t, prev)

	base := time.Now().Add(-2 * time.Hour).Truncate(time.Microsecond)
	for i, rank := range []domain.Rank{12, 9, 5} {
		require.NoError(t, s.InsertObservation(ctx, &domain.RankObservation{
			Keyword:    "bible chat",
			Country:    "US",
			Rank:       rank,
			ObservedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	prev, err = s.LatestObservation(ctx, "bible chat", "US")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, domain.Rank(5), prev.Rank)

	history, err := s.ObservationHistory(ctx, "bible chat", "US", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.Rank(5), history[0].Rank)
	assert.Equal(t, domain.Rank(9), history[1].Rank)

	// Another pair, then the latest-per-pair snapshot.
	require.NoError(t, s.InsertObservation(ctx, &domain.RankObservation{
		Keyword: "prayer app", Country: "US", Rank: domain.NotRanked,
		ObservedAt: base,
	}))

	latest, err := s.LatestObservations(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}

func TestPostgresStore_PruneObservations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.InsertObservation(ctx, &domain.RankObservation{
		Keyword: "bible chat", Country: "US", Rank: 10, ObservedAt: old,
	}))
	require.NoError(t, s.InsertObservation(ctx, &domain.RankObservation{
		Keyword: "bible chat", Country: "US", Rank: 8, ObservedAt: time.Now(),
	}))

	pruned, err := s.PruneObservations(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	history, err := s.ObservationHistory(ctx, "bible chat", "US", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPostgresStore_AlertRecords(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	records := []domain.AlertRecord{
		{
			Type: domain.AlertDrop, Keyword: "bible chat", Country: "US",
			PreviousRank: 5, CurrentRank: 19, Delta: -14,
			Priority: domain.PriorityCritical,
		},
		{
			Type: domain.AlertRise, Keyword: "prayer app", Country: "ES",
			PreviousRank: 40, CurrentRank: 20, Delta: 20,
			Priority: domain.PriorityCelebration,
		},
	}
	require.NoError(t, s.InsertAlertRecords(ctx, records))

	priority := "CRITICAL"
	got, total, err := s.ListAlertRecords(ctx, &store.RecordQuery{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "bible chat", got[0].Keyword)
	assert.Equal(t, -14, got[0].Delta)

	since, err := s.AlertRecordsSince(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, since, 2)

	pruned, err := s.PruneAlertRecords(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)
}

func TestPostgresStore_JobRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	id, err := s.InsertJobRun(ctx, "tracking")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, s.CompleteJobRun(ctx, id, "succeeded", "", 12))

	runs, err := s.ListJobRuns(ctx, "tracking", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "succeeded", runs[0].Status)
	require.NotNil(t, runs[0].RowsAffected)
	assert.Equal(t, 12, *runs[0].RowsAffected)

	_, err = s.InsertJobRun(ctx, "digest")
	require.NoError(t, err)

	latest, err := s.ListLatestJobRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}
