// Package wiki fetches article summaries from the MediaWiki extracts API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://en.wikipedia.org/w/api.php"

// ErrNoResult means the title did not match any article.
var ErrNoResult = errors.New("no article found")

// Client queries Wikipedia for intro extracts.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client against the English Wikipedia API.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Summary returns the plain-text intro extract for the given title.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("exintro", "")
	params.Set("explaintext", "")
	params.Set("redirects", "1")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia request failed: %s", resp.Status)
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse wikipedia response: %w", err)
	}

	// A page id of -1 is the API's "no such title" marker.
	for id, page := range parsed.Query.Pages {
		if id == "-1" {
			return "", ErrNoResult
		}
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", ErrNoResult
}
