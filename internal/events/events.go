// Package events is a client for the campus events calendar API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public events API root.
const DefaultBaseURL = "https://calendar.byu.edu/api"

// DefaultTimeout bounds a single events API request.
const DefaultTimeout = 15 * time.Second

// allCategories is sent when no category filter is given.
const allCategories = "all"

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Query filters an events request. Zero values mean "no filter".
type Query struct {
	StartDate  string
	EndDate    string
	Categories []float64
	Price      *float64
}

// Client calls the events API.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates an events API client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

// Events returns events matching q. Categories are joined with "+" in their
// shortest decimal form (3.0 is sent as 3); without categories every
// category is requested.
func (c *Client) Events(ctx context.Context, q Query) (json.RawMessage, error) {
	params := url.Values{}
	if len(q.Categories) > 0 {
		ids := make([]string, len(q.Categories))
		for i, id := range q.Categories {
			ids[i] = strconv.FormatFloat(id, 'f', -1, 64)
		}
		params.Set("categories", strings.Join(ids, "+"))
	} else {
		params.Set("categories", allCategories)
	}
	addDateRange(params, q)
	return c.get(ctx, "Events.json", params)
}

// CategoryCounts returns the number of events per category for the range.
func (c *Client) CategoryCounts(ctx context.Context, q Query) (json.RawMessage, error) {
	params := url.Values{}
	addDateRange(params, q)
	return c.get(ctx, "AllCategoryCounts.json", params)
}

// Categories returns every category with its name and ID.
func (c *Client) Categories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "AllCategories.json", nil)
}

func addDateRange(params url.Values, q Query) {
	if q.StartDate != "" {
		params.Add("event[min][date]", q.StartDate)
	}
	if q.EndDate != "" {
		params.Add("event[max][date]", q.EndDate)
	}
	if q.Price != nil {
		params.Add("price", strconv.FormatFloat(*q.Price, 'f', -1, 64))
	}
}

// URL builds the request URL for a document; exposed for logging and tests.
func (c *Client) URL(doc string, params url.Values) string {
	u := c.baseURL + "/" + doc
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, doc string, params url.Values) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.URL(doc, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling events API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("events API returned %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading events response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("events API returned invalid JSON for %s", doc)
	}

	c.logger.Debug("events API call", "doc", doc, "status", resp.StatusCode, "duration", time.Since(start))
	return json.RawMessage(body), nil
}
