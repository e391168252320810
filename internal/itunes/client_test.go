package itunes_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoguard/rankguard/internal/itunes"
	domain "github.com/asoguard/rankguard/pkg/types"
)

func searchResults(trackIDs ...int64) string {
	entries := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		entries = append(entries, fmt.Sprintf(
			`{"trackId": %d, "bundleId": "com.example.app%d"}`, id, id,
		))
	}
	return fmt.Sprintf(
		`{"resultCount": %d, "results": [%s]}`,
		len(trackIDs), strings.Join(entries, ","),
	)
}

func TestClient_Rank(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bible chat", r.URL.Query().Get("term"))
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "software", r.URL.Query().Get("entity"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		fmt.Fprint(w, searchResults(111, 222, 333))
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "", itunes.WithSearchURL(srv.URL))

	rank, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)
	assert.Equal(t, domain.Rank(2), rank)
}

func TestClient_RankNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, searchResults(111, 333))
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "", itunes.WithSearchURL(srv.URL))

	rank, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)
	assert.Equal(t, domain.NotRanked, rank)
	assert.False(t, rank.IsRanked())
}

func TestClient_RankByBundleID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, searchResults(111, 222))
	}))
	defer srv.Close()

	c := itunes.NewClient("", "COM.Example.App222", itunes.WithSearchURL(srv.URL))

	rank, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)
	assert.Equal(t, domain.Rank(2), rank)
}

func TestClient_ScanDepth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		fmt.Fprint(w, searchResults())
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "",
		itunes.WithSearchURL(srv.URL),
		itunes.WithScanDepth(50),
	)

	_, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)
}

func TestClient_RetriesOnThrottle(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, searchResults(222))
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "",
		itunes.WithSearchURL(srv.URL),
		itunes.WithRetries(2),
	)

	rank, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)
	assert.Equal(t, domain.Rank(1), rank)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "",
		itunes.WithSearchURL(srv.URL),
		itunes.WithRetries(3),
	)

	_, err := c.Rank(context.Background(), "bible chat", "US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := itunes.NewClient("222", "",
		itunes.WithSearchURL(srv.URL),
		itunes.WithRetries(1),
	)

	_, err := c.Rank(context.Background(), "bible chat", "US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted retries")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DailyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, searchResults(222))
	}))
	defer srv.Close()

	rl := itunes.NewRateLimiter(100, 10, 1)
	c := itunes.NewClient("222", "",
		itunes.WithSearchURL(srv.URL),
		itunes.WithRateLimiter(rl),
	)

	_, err := c.Rank(context.Background(), "bible chat", "US")
	require.NoError(t, err)

	_, err = c.Rank(context.Background(), "prayer app", "US")
	require.Error(t, err)
	assert.ErrorIs(t, err, itunes.ErrDailyLimitReached)
}
