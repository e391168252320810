package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/asoguard/rankguard/internal/store"
	domain "github.com/asoguard/rankguard/pkg/types"
)

// AlertsProvider defines the store methods required by the alerts handler.
type AlertsProvider interface {
	ListAlertRecords(ctx context.Context, opts *store.RecordQuery) ([]domain.AlertRecord, int, error)
}

// AlertsHandler handles alert history query endpoints.
type AlertsHandler struct {
	store AlertsProvider
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(s AlertsProvider) *AlertsHandler {
	return &AlertsHandler{store: s}
}

// ListAlertsInput is the input for listing alert records with filters.
type ListAlertsInput struct {
	Priority   string `query:"priority"    doc:"Filter by priority tier"        enum:"CRITICAL,HIGH,MEDIUM,LOW,CELEBRATION,"`
	Keyword    string `query:"keyword"     doc:"Filter by keyword"`
	Country    string `query:"country"     doc:"Filter by storefront code"`
	SinceHours int    `query:"since_hours" doc:"Only alerts from the last N hours"            minimum:"0"`
	Limit      int    `query:"limit"       doc:"Number of results (default 50)"               minimum:"1" maximum:"500"`
	Offset     int    `query:"offset"      doc:"Pagination offset"                            minimum:"0"`
	OrderBy    string `query:"order_by"    doc:"Sort field"                     enum:"created_at,delta,"`
}

// ListAlertsOutput is the response for listing alert records.
type ListAlertsOutput struct {
	Body struct {
		Alerts []domain.AlertRecord `json:"alerts"`
		Total  int                  `json:"total"`
		Limit  int                  `json:"limit"`
		Offset int                  `json:"offset"`
	}
}

const defaultAlertsLimit = 50

// List returns recorded alerts with optional filters for priority,
// keyword, recency, and pagination.
func (h *AlertsHandler) List(
	ctx context.Context,
	input *ListAlertsInput,
) (*ListAlertsOutput, error) {
	q := &store.RecordQuery{
		Limit:   defaultAlertsLimit,
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}

	if input.Priority != "" {
		q.Priority = &input.Priority
	}

	if input.Keyword != "" {
		q.Keyword = &input.Keyword
	}

	if input.Country != "" {
		q.Country = &input.Country
	}

	if input.SinceHours > 0 {
		since := time.Now().Add(-time.Duration(input.SinceHours) * time.Hour)
		q.Since = &since
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	alerts, total, err := h.store.ListAlertRecords(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("alert query failed: " + err.Error())
	}

	if alerts == nil {
		alerts = []domain.AlertRecord{}
	}

	resp := &ListAlertsOutput{}
	resp.Body.Alerts = alerts
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// RegisterAlertRoutes registers alert history endpoints with the Huma API.
func RegisterAlertRoutes(api huma.API, h *AlertsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/alerts",
		Summary:     "List recorded alerts",
		Description: "Returns past alerts with optional filters for priority, keyword, recency, and pagination.",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)
}
