package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrFeedUnavailable is returned when the NeoWs feed cannot be reached or
// answers with something other than a 2xx JSON document.
var ErrFeedUnavailable = errors.New("NEO feed unavailable")

const feedDateLayout = "2006-01-02"

type NEOClient interface {
	FetchEntriesForDate(ctx context.Context, date time.Time) ([]RawFeedEntry, error)
}

type NEOConfig struct {
	APIKey  string
	NEOURL  string
	Timeout time.Duration
}

type neoClient struct {
	apiKey string
	neoURL string
	client *http.Client
}

func NewNEOClient(config NEOConfig) NEOClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &neoClient{
		apiKey: config.APIKey,
		neoURL: config.NEOURL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:       10,
				IdleConnTimeout:    30 * time.Second,
				DisableCompression: false,
			},
		},
	}
}

// FetchEntriesForDate requests a single-day window and returns the entries
// listed under that date. A missing date key means no close approaches.
func (c *neoClient) FetchEntriesForDate(ctx context.Context, date time.Time) ([]RawFeedEntry, error) {
	day := date.Format(feedDateLayout)

	params := url.Values{}
	params.Add("start_date", day)
	params.Add("end_date", day)
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}

	reqURL := c.neoURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "NEO-Watch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFeedUnavailable, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: NEO API returned status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	var feed FeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decode JSON: %v", ErrFeedUnavailable, err)
	}

	entries, ok := feed.NearEarthObjects[day]
	if !ok {
		return []RawFeedEntry{}, nil
	}

	return entries, nil
}
