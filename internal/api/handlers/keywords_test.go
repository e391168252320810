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
	domain "github.com/asoguard/rankguard/pkg/types"
)

// mockKeywordsProvider is a test double for KeywordsProvider.
type mockKeywordsProvider struct {
	keywords []domain.TrackedKeyword
	keyword  *domain.TrackedKeyword
	err      error

	gotEnabledOnly bool
	gotEnabled     bool
	deletedID      string
}

func (m *mockKeywordsProvider) CreateKeyword(_ context.Context, k *domain.TrackedKeyword) error {
	if m.err != nil {
		return m.err
	}
	k.ID = "kw-1"
	return nil
}

func (m *mockKeywordsProvider) GetKeyword(_ context.Context, _ string) (*domain.TrackedKeyword, error) {
	return m.keyword, m.err
}

func (m *mockKeywordsProvider) ListKeywords(_ context.Context, enabledOnly bool) ([]domain.TrackedKeyword, error) {
	m.gotEnabledOnly = enabledOnly
	return m.keywords, m.err
}

func (m *mockKeywordsProvider) SetKeywordEnabled(_ context.Context, _ string, enabled bool) error {
	m.gotEnabled = enabled
	return m.err
}

func (m *mockKeywordsProvider) DeleteKeyword(_ context.Context, id string) error {
	m.deletedID = id
	return m.err
}

func TestKeywordsHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		path            string
		provider        *mockKeywordsProvider
		wantStatus      int
		wantBody        string
		wantEnabledOnly bool
	}{
		{
			name: "returns keywords",
			path: "/api/v1/keywords",
			provider: &mockKeywordsProvider{
				keywords: []domain.TrackedKeyword{
					{ID: "kw-1", Keyword: "bible sleep", Country: "US"},
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"bible sleep"`,
		},
		{
			name:            "enabled only filter",
			path:            "/api/v1/keywords?enabled=true",
			provider:        &mockKeywordsProvider{},
			wantStatus:      http.StatusOK,
			wantBody:        `[]`,
			wantEnabledOnly: true,
		},
		{
			name:       "store error",
			path:       "/api/v1/keywords",
			provider:   &mockKeywordsProvider{err: errors.New("db error")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "listing keywords failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewKeywordsHandler(tt.provider)

			_, api := humatest.New(t)
			handlers.RegisterKeywordRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
			assert.Equal(t, tt.wantEnabledOnly, tt.provider.gotEnabledOnly)
		})
	}
}

func TestKeywordsHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		h := handlers.NewKeywordsHandler(&mockKeywordsProvider{
			keyword: &domain.TrackedKeyword{ID: "kw-1", Keyword: "devotional", Country: "US"},
		})

		_, api := humatest.New(t)
		handlers.RegisterKeywordRoutes(api, h)

		resp := api.Get("/api/v1/keywords/kw-1")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"devotional"`)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		h := handlers.NewKeywordsHandler(&mockKeywordsProvider{err: errors.New("no rows")})

		_, api := humatest.New(t)
		handlers.RegisterKeywordRoutes(api, h)

		resp := api.Get("/api/v1/keywords/missing")
		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Body.String(), "keyword not found")
	})
}

func TestKeywordsHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("creates keyword", func(t *testing.T) {
		t.Parallel()

		h := handlers.NewKeywordsHandler(&mockKeywordsProvider{})

		_, api := humatest.New(t)
		handlers.RegisterKeywordRoutes(api, h)

		resp := api.Post("/api/v1/keywords", map[string]any{
			"keyword": "prayer app",
			"country": "US",
			"enabled": true,
		})
		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Contains(t, resp.Body.String(), `"kw-1"`)
	})

	t.Run("store error", func(t *testing.T) {
		t.Parallel()

		h := handlers.NewKeywordsHandler(&mockKeywordsProvider{err: errors.New("db error")})

		_, api := humatest.New(t)
		handlers.RegisterKeywordRoutes(api, h)

		resp := api.Post("/api/v1/keywords", map[string]any{
			"keyword": "prayer app",
			"country": "US",
		})
		require.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Contains(t, resp.Body.String(), "creating keyword failed")
	})
}

func TestKeywordsHandler_SetEnabled(t *testing.T) {
	t.Parallel()

	provider := &mockKeywordsProvider{}
	h := handlers.NewKeywordsHandler(provider)

	_, api := humatest.New(t)
	handlers.RegisterKeywordRoutes(api, h)

	resp := api.Put("/api/v1/keywords/kw-1/enabled", map[string]any{
		"enabled": false,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "updated")
	assert.False(t, provider.gotEnabled)
}

func TestKeywordsHandler_Delete(t *testing.T) {
	t.Parallel()

	provider := &mockKeywordsProvider{}
	h := handlers.NewKeywordsHandler(provider)

	_, api := humatest.New(t)
	handlers.RegisterKeywordRoutes(api, h)

	resp := api.Delete("/api/v1/keywords/kw-1")
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "kw-1", provider.deletedID)
}
