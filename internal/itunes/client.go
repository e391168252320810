// Package itunes looks up App Store keyword rankings through the iTunes
// Search API. A keyword's rank is the 1-based position of the tracked
// app in the search results for that keyword, scanned to a configurable
// depth; an app absent from the results is reported as not ranked.
package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asoguard/rankguard/internal/metrics"
	domain "github.com/asoguard/rankguard/pkg/types"
)

const defaultSearchURL = "https://itunes.apple.com/search"

// retryBaseDelay is doubled per attempt when the API throttles or errors.
const retryBaseDelay = 500 * time.Millisecond

// Client queries the iTunes Search API for keyword rankings.
type Client struct {
	searchURL   string
	appID       string
	bundleID    string
	scanDepth   int
	retries     int
	client      *http.Client
	rateLimiter *RateLimiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithSearchURL overrides the default Search API endpoint.
func WithSearchURL(u string) ClientOption {
	return func(c *Client) {
		c.searchURL = u
	}
}

// WithScanDepth sets how many results are fetched per keyword. The API
// caps the limit parameter at 250.
func WithScanDepth(depth int) ClientOption {
	return func(c *Client) {
		c.scanDepth = depth
	}
}

// WithRetries sets how many times a throttled or failed lookup is retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		c.retries = n
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and daily
// API call limits. When set, every Rank() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates an iTunes Search API client that identifies the
// tracked app by its numeric App Store ID, falling back to the bundle
// ID when the numeric ID is empty.
func NewClient(appID, bundleID string, opts ...ClientOption) *Client {
	c := &Client{
		searchURL: defaultSearchURL,
		appID:     appID,
		bundleID:  bundleID,
		scanDepth: domain.MaxScanDepth,
		retries:   2,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchAPIResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []searchEntry `json:"results"`
}

type searchEntry struct {
	TrackID  int64  `json:"trackId"`
	BundleID string `json:"bundleId"`
}

// Rank returns the tracked app's position for the keyword in the given
// storefront. A keyword whose results do not include the app yields
// domain.NotRanked with a nil error; errors are reserved for transport
// and API failures.
func (c *Client) Rank(ctx context.Context, keyword, country string) (domain.Rank, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.ITunesDailyLimitHits.Inc()
			}
			return domain.NotRanked, fmt.Errorf("rate limit: %w", err)
		}
		metrics.ITunesAPICallsTotal.Inc()
		metrics.ITunesDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	resp, err := c.search(ctx, keyword, country)
	if err != nil {
		return domain.NotRanked, err
	}

	for i := range resp.Results {
		if c.matches(&resp.Results[i]) {
			return domain.Rank(i + 1), nil
		}
	}
	return domain.NotRanked, nil
}

func (c *Client) matches(e *searchEntry) bool {
	if c.appID != "" {
		return strconv.FormatInt(e.TrackID, 10) == c.appID
	}
	return strings.EqualFold(e.BundleID, c.bundleID)
}

// search performs the HTTP round trip with retries. Throttling (429)
// and server errors back off exponentially; client errors fail fast.
func (c *Client) search(ctx context.Context, keyword, country string) (*searchAPIResponse, error) {
	u := c.buildSearchURL(keyword, country)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("search canceled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, retryable, err := c.doSearch(ctx, u)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("search exhausted retries: %w", lastErr)
}

func (c *Client) doSearch(ctx context.Context, u string) (*searchAPIResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, fmt.Errorf(
			"iTunes API error (status %d): %s", resp.StatusCode, string(body),
		)
	}

	var apiResp searchAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, false, fmt.Errorf("parsing search response: %w", err)
	}
	return &apiResp, false, nil
}

func (c *Client) buildSearchURL(keyword, country string) string {
	params := url.Values{}
	params.Set("term", keyword)
	params.Set("country", strings.ToLower(country))
	params.Set("entity", "software")
	params.Set("limit", strconv.Itoa(c.scanDepth))
	return c.searchURL + "?" + params.Encode()
}
