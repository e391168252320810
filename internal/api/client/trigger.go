package client

import (
	"context"
	"time"
)

// TriggerTracking runs a full tracking cycle on the server.
func (c *Client) TriggerTracking(ctx context.Context) error {
	return c.post(ctx, "/api/v1/track", nil, nil)
}

// TriggerDigest renders and sends the daily digest immediately.
func (c *Client) TriggerDigest(ctx context.Context) error {
	return c.post(ctx, "/api/v1/digest", nil, nil)
}

// Quota is the iTunes API quota status.
type Quota struct {
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// GetQuota returns the current iTunes Search API quota status.
func (c *Client) GetQuota(ctx context.Context) (*Quota, error) {
	var q Quota
	if err := c.get(ctx, "/api/v1/quota", &q); err != nil {
		return nil, err
	}
	return &q, nil
}
