package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// LatestRankings returns the most recent observation for every tracked
// keyword/country pair.
func (c *Client) LatestRankings(ctx context.Context) ([]domain.RankObservation, error) {
	var observations []domain.RankObservation
	if err := c.get(ctx, "/api/v1/rankings", &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

// RankingHistory returns stored observations for one keyword/country
// pair, newest first. limit 0 uses the server default.
func (c *Client) RankingHistory(
	ctx context.Context,
	keyword, country string,
	limit int,
) ([]domain.RankObservation, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("country", country)
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	var observations []domain.RankObservation
	if err := c.get(ctx, "/api/v1/rankings/history?"+q.Encode(), &observations); err != nil {
		return nil, err
	}
	return observations, nil
}
