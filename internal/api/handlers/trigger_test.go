package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asoguard/rankguard/internal/api/handlers"
)

// mockEngine is a test double for the Tracker and DigestRunner interfaces.
type mockEngine struct {
	trackErr  error
	digestErr error

	trackCalls  int
	digestCalls int
}

func (m *mockEngine) RunTrackingCycle(_ context.Context) error {
	m.trackCalls++
	return m.trackErr
}

func (m *mockEngine) RunDailyDigest(_ context.Context) error {
	m.digestCalls++
	return m.digestErr
}

func newTriggerAPI(t *testing.T, eng *mockEngine) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api,
		handlers.NewTrackHandler(eng),
		handlers.NewDigestHandler(eng),
	)
	return api
}

func TestTrack_Success(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{}
	api := newTriggerAPI(t, eng)

	resp := api.Post("/api/v1/track")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "tracking cycle completed")
	assert.Equal(t, 1, eng.trackCalls)
}

func TestTrack_Error(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{trackErr: errors.New("lookup down")}
	api := newTriggerAPI(t, eng)

	resp := api.Post("/api/v1/track")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "tracking cycle failed")
}

func TestDigest_Success(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{}
	api := newTriggerAPI(t, eng)

	resp := api.Post("/api/v1/digest")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "digest sent")
	assert.Equal(t, 1, eng.digestCalls)
}

func TestDigest_Error(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{digestErr: errors.New("notifier down")}
	api := newTriggerAPI(t, eng)

	resp := api.Post("/api/v1/digest")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "digest failed")
}
