package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://www.omdbapi.com/"

// OMDbClient talks to the OMDb HTTP API. Requests carry a bounded timeout so
// a slow upstream degrades into a user-visible error instead of a hung request.
type OMDbClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOMDbClient(apiKey, baseURL string) *OMDbClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OMDbClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// omdbEnvelope is the common part of every OMDb payload. Failures come back
// as HTTP 200 with Response=False and an Error message.
type omdbEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (c *OMDbClient) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("s", query)
	q.Set("page", strconv.Itoa(page))

	var payload struct {
		omdbEnvelope
		Search       []SearchItem `json:"Search"`
		TotalResults string       `json:"totalResults"`
	}
	if err := c.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, payload.Error)
	}

	// A malformed or missing count is treated as zero, not an error.
	total, err := strconv.Atoi(payload.TotalResults)
	if err != nil || total < 0 {
		total = 0
	}

	return &SearchResult{Items: payload.Search, TotalResults: total}, nil
}

func (c *OMDbClient) GetByID(ctx context.Context, imdbID string) (*Movie, error) {
	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("plot", "full")

	var payload struct {
		omdbEnvelope
		Movie
	}
	if err := c.get(ctx, q, &payload); err != nil {
		return nil, err
	}
	if payload.Response != "True" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, payload.Error)
	}

	movie := payload.Movie
	return &movie, nil
}

func (c *OMDbClient) get(ctx context.Context, q url.Values, out any) error {
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog lookup: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding catalog response: %w", err)
	}
	return nil
}
