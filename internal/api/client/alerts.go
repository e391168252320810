package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// ListAlertsParams are the optional filters for listing recorded alerts.
type ListAlertsParams struct {
	Priority   string
	Keyword    string
	Country    string
	SinceHours int
	Limit      int
	Offset     int
	OrderBy    string
}

// AlertsResponse is the paginated alert listing response.
type AlertsResponse struct {
	Alerts []domain.AlertRecord `json:"alerts"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// ListAlerts returns recorded alerts matching the given filters.
func (c *Client) ListAlerts(ctx context.Context, params *ListAlertsParams) (*AlertsResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Priority != "" {
			q.Set("priority", params.Priority)
		}
		if params.Keyword != "" {
			q.Set("keyword", params.Keyword)
		}
		if params.Country != "" {
			q.Set("country", params.Country)
		}
		if params.SinceHours > 0 {
			q.Set("since_hours", fmt.Sprint(params.SinceHours))
		}
		if params.Limit > 0 {
			q.Set("limit", fmt.Sprint(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", fmt.Sprint(params.Offset))
		}
		if params.OrderBy != "" {
			q.Set("order_by", params.OrderBy)
		}
	}

	path := "/api/v1/alerts"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp AlertsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
