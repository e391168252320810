package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// RankingsProvider defines the store methods required by the rankings handler.
type RankingsProvider interface {
	LatestObservations(ctx context.Context) ([]domain.RankObservation, error)
	ObservationHistory(ctx context.Context, keyword, country string, limit int) ([]domain.RankObservation, error)
}

// RankingsHandler handles rank observation query endpoints.
type RankingsHandler struct {
	store RankingsProvider
}

// NewRankingsHandler creates a new RankingsHandler.
func NewRankingsHandler(s RankingsProvider) *RankingsHandler {
	return &RankingsHandler{store: s}
}

// LatestRankingsOutput is the response for the latest rankings endpoint.
type LatestRankingsOutput struct {
	Body []domain.RankObservation
}

// RankingHistoryInput is the input for a keyword's rank history.
type RankingHistoryInput struct {
	Keyword string `query:"keyword" doc:"Search term"               required:"true"`
	Country string `query:"country" doc:"Two-letter storefront code" required:"true"`
	Limit   int    `query:"limit"   doc:"Number of observations (default 50)" minimum:"1" maximum:"500"`
}

// RankingHistoryOutput is the response for a keyword's rank history.
type RankingHistoryOutput struct {
	Body []domain.RankObservation
}

const defaultHistoryLimit = 50

// Latest returns the most recent observation for every tracked pair.
func (h *RankingsHandler) Latest(
	ctx context.Context,
	_ *struct{},
) (*LatestRankingsOutput, error) {
	observations, err := h.store.LatestObservations(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading rankings failed: " + err.Error())
	}

	if observations == nil {
		observations = []domain.RankObservation{}
	}

	return &LatestRankingsOutput{Body: observations}, nil
}

// History returns the stored observations for one keyword/country pair,
// newest first.
func (h *RankingsHandler) History(
	ctx context.Context,
	input *RankingHistoryInput,
) (*RankingHistoryOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultHistoryLimit
	}

	observations, err := h.store.ObservationHistory(ctx, input.Keyword, input.Country, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading rank history failed: " + err.Error())
	}

	if observations == nil {
		observations = []domain.RankObservation{}
	}

	return &RankingHistoryOutput{Body: observations}, nil
}

// RegisterRankingRoutes registers ranking endpoints with the Huma API.
func RegisterRankingRoutes(api huma.API, h *RankingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "latest-rankings",
		Method:      http.MethodGet,
		Path:        "/api/v1/rankings",
		Summary:     "Latest rank per tracked keyword",
		Description: "Returns the most recent rank observation for every tracked keyword/country pair.",
		Tags:        []string{"rankings"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Latest)

	huma.Register(api, huma.Operation{
		OperationID: "ranking-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/rankings/history",
		Summary:     "Rank history for one keyword",
		Description: "Returns stored rank observations for a keyword/country pair, newest first.",
		Tags:        []string{"rankings"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.History)
}
