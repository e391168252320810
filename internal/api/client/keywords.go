package client

import (
	"context"
	"fmt"

	domain "github.com/asoguard/rankguard/pkg/types"
)

// keywordRequest contains only the fields the API accepts on create.
type keywordRequest struct {
	Keyword string `json:"keyword"`
	Country string `json:"country"`
	Enabled bool   `json:"enabled"`
}

// ListKeywords returns all tracked keywords. When enabledOnly is true,
// disabled keywords are excluded.
func (c *Client) ListKeywords(ctx context.Context, enabledOnly bool) ([]domain.TrackedKeyword, error) {
	path := "/api/v1/keywords"
	if enabledOnly {
		path += "?enabled=true"
	}

	var keywords []domain.TrackedKeyword
	if err := c.get(ctx, path, &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

// GetKeyword returns a single tracked keyword by ID.
func (c *Client) GetKeyword(ctx context.Context, id string) (*domain.TrackedKeyword, error) {
	var k domain.TrackedKeyword
	if err := c.get(ctx, "/api/v1/keywords/"+id, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// CreateKeyword registers a new keyword/country pair for tracking.
func (c *Client) CreateKeyword(
	ctx context.Context,
	keyword, country string,
	enabled bool,
) (*domain.TrackedKeyword, error) {
	var created domain.TrackedKeyword
	req := keywordRequest{Keyword: keyword, Country: country, Enabled: enabled}
	if err := c.post(ctx, "/api/v1/keywords", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetKeywordEnabled enables or disables a tracked keyword.
func (c *Client) SetKeywordEnabled(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, fmt.Sprintf("/api/v1/keywords/%s/enabled", id), body, nil)
}

// DeleteKeyword removes a tracked keyword and its stored history.
func (c *Client) DeleteKeyword(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/keywords/"+id, nil)
}
