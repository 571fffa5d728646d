package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appsearch "github.com/equipment/backend/internal/application/search"
)

const duckduckgoBaseURL = "https://api.duckduckgo.com"

// DuckDuckGoClient implements the fallback search provider against the
// DuckDuckGo Instant Answer API. It needs no API key, which is exactly why it
// is the fallback: results are thinner but the provider is always available.
type DuckDuckGoClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure DuckDuckGoClient implements the provider port
var _ appsearch.Provider = (*DuckDuckGoClient)(nil)

// DuckDuckGoOption is a functional option for configuring DuckDuckGoClient
type DuckDuckGoOption func(*DuckDuckGoClient)

// WithDuckDuckGoBaseURL overrides the API base URL, used by tests
func WithDuckDuckGoBaseURL(baseURL string) DuckDuckGoOption {
	return func(c *DuckDuckGoClient) {
		c.baseURL = baseURL
	}
}

// WithDuckDuckGoTimeout sets the HTTP client timeout
func WithDuckDuckGoTimeout(timeout time.Duration) DuckDuckGoOption {
	return func(c *DuckDuckGoClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewDuckDuckGoClient creates a new DuckDuckGoClient
func NewDuckDuckGoClient(opts ...DuckDuckGoOption) *DuckDuckGoClient {
	c := &DuckDuckGoClient{
		baseURL: duckduckgoBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider in logs
func (c *DuckDuckGoClient) Name() string {
	return "duckduckgo"
}

type duckduckgoResponse struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search runs the query against the Instant Answer API
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]appsearch.Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("no_redirect", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo API error (status %d)", resp.StatusCode)
	}

	var parsed duckduckgoResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var results []appsearch.Result
	if parsed.AbstractText != "" && parsed.AbstractURL != "" {
		results = append(results, appsearch.Result{
			Title:   parsed.Heading,
			URL:     parsed.AbstractURL,
			Snippet: parsed.AbstractText,
		})
	}
	for _, topic := range parsed.RelatedTopics {
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		results = append(results, appsearch.Result{
			Title:   topic.Text,
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
