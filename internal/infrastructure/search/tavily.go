// Package search provides web search provider clients.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appsearch "github.com/equipment/backend/internal/application/search"
)

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient implements the primary search provider against the Tavily API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Ensure TavilyClient implements the provider port
var _ appsearch.Provider = (*TavilyClient)(nil)

// TavilyOption is a functional option for configuring TavilyClient
type TavilyOption func(*TavilyClient)

// WithTavilyBaseURL overrides the API base URL, used by tests
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(c *TavilyClient) {
		c.baseURL = baseURL
	}
}

// WithTavilyTimeout sets the HTTP client timeout
func WithTavilyTimeout(timeout time.Duration) TavilyOption {
	return func(c *TavilyClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewTavilyClient creates a new TavilyClient
func NewTavilyClient(apiKey string, opts ...TavilyOption) *TavilyClient {
	c := &TavilyClient{
		apiKey:  apiKey,
		baseURL: tavilyBaseURL,
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
func (c *TavilyClient) Name() string {
	return "tavily"
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs the query against Tavily
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]appsearch.Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tavily API key is not configured")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(respBody)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, fmt.Errorf("tavily API error (status %d): %s", resp.StatusCode, snippet)
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]appsearch.Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		score := r.Score
		results = append(results, appsearch.Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Score:   &score,
		})
	}
	return results, nil
}
