// Package search defines the external search boundary used by the
// retrieval engine's web fallback. Best-effort: providers may return
// an empty snippet list.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider returns short text snippets for a free-text query
type Provider interface {
	Search(ctx context.Context, query string) ([]string, error)
}

const defaultEndpoint = "https://api.duckduckgo.com/"

// DuckDuckGoClient implements Provider against DuckDuckGo's instant
// answer JSON endpoint
type DuckDuckGoClient struct {
	endpoint   string
	topK       int
	httpClient *http.Client
}

// DuckDuckGoOption is a functional option for DuckDuckGoClient
type DuckDuckGoOption func(*DuckDuckGoClient)

// DuckDuckGoWithTopK caps the number of returned snippets
func DuckDuckGoWithTopK(k int) DuckDuckGoOption {
	return func(c *DuckDuckGoClient) {
		c.topK = k
	}
}

// DuckDuckGoWithEndpoint overrides the API endpoint
func DuckDuckGoWithEndpoint(endpoint string) DuckDuckGoOption {
	return func(c *DuckDuckGoClient) {
		c.endpoint = endpoint
	}
}

// NewDuckDuckGoClient creates a snippet search client with a fixed
// per-call timeout
func NewDuckDuckGoClient(opts ...DuckDuckGoOption) *DuckDuckGoClient {
	c := &DuckDuckGoClient{
		endpoint:   defaultEndpoint,
		topK:       5,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type instantAnswerResponse struct {
	AbstractText  string `json:"AbstractText"`
	RelatedTopics []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Search returns up to topK text snippets for the query
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) ([]string, error) {
	reqURL := fmt.Sprintf("%s?q=%s&format=json&no_html=1", c.endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error: %d", resp.StatusCode)
	}

	var apiResp instantAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	snippets := make([]string, 0, c.topK)
	if apiResp.AbstractText != "" {
		snippets = append(snippets, apiResp.AbstractText)
	}
	for _, topic := range apiResp.RelatedTopics {
		if len(snippets) >= c.topK {
			break
		}
		if topic.Text != "" {
			snippets = append(snippets, topic.Text)
		}
	}

	return snippets, nil
}
