// Package wikipedia looks up background material for factual questions.
//
// A lookup is two calls: the MediaWiki search API picks the best page title
// for a free-form query, then the REST summary endpoint fetches its extract.
// Callers cache results, this package stays stateless.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/embedchat-ai/embedchat/pkg/config"
	"github.com/embedchat-ai/embedchat/pkg/models"
)

// ErrNoResult indicates the search found no matching page. It is an expected
// outcome for conversational or off-topic queries, not a failure.
var ErrNoResult = errors.New("wikipedia: no matching page")

// Client calls the Wikipedia APIs under one base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client from the Wikipedia configuration.
func New(cfg config.WikipediaConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Lookup searches for query and returns the cleaned summary of the best
// matching page. Returns ErrNoResult when nothing matches.
func (c *Client) Lookup(ctx context.Context, query string) (*models.WikiResult, error) {
	title, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.summary(ctx, title)
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("srlimit", "1")
	q.Set("format", "json")

	body, err := c.get(ctx, c.baseURL+"/w/api.php?"+q.Encode())
	if err != nil {
		return "", fmt.Errorf("wikipedia search: %w", err)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("parse search response: %w", err)
	}
	if len(sr.Query.Search) == 0 {
		return "", ErrNoResult
	}
	return sr.Query.Search[0].Title, nil
}

type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (c *Client) summary(ctx context.Context, title string) (*models.WikiResult, error) {
	body, err := c.get(ctx, c.baseURL+"/api/rest_v1/page/summary/"+url.PathEscape(title))
	if err != nil {
		return nil, fmt.Errorf("wikipedia summary: %w", err)
	}

	var sr summaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parse summary response: %w", err)
	}
	if sr.Extract == "" {
		return nil, ErrNoResult
	}

	return &models.WikiResult{
		Title:   sr.Title,
		Extract: CleanExtract(sr.Extract),
		URL:     sr.ContentURLs.Desktop.Page,
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoResult
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
