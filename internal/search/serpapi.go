// Package search wraps the SerpAPI web-search endpoint behind a small client
// used as the agent's single tool.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const noResultsMessage = "No good search result found"

const maxResults = 5

type SerpAPIConfig struct {
	APIKey  string
	BaseURL string
}

type SerpAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewSerpAPIClient(cfg SerpAPIConfig) *SerpAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}
	return &SerpAPIClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Search runs a Google search for the query and returns a plain-text digest
// of the answer box and top organic results.
func (c *SerpAPIClient) Search(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing API key for SerpAPI client")
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("search request failed: %s", resp.Status)
	}

	var parsed struct {
		Error     string `json:"error"`
		AnswerBox struct {
			Answer  string `json:"answer"`
			Snippet string `json:"snippet"`
		} `json:"answer_box"`
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("search request failed: %s", parsed.Error)
	}

	var lines []string
	if answer := strings.TrimSpace(parsed.AnswerBox.Answer); answer != "" {
		lines = append(lines, "Answer: "+answer)
	} else if snippet := strings.TrimSpace(parsed.AnswerBox.Snippet); snippet != "" {
		lines = append(lines, "Answer: "+snippet)
	}
	for i, result := range parsed.OrganicResults {
		if i >= maxResults {
			break
		}
		line := strings.TrimSpace(result.Title)
		if snippet := strings.TrimSpace(result.Snippet); snippet != "" {
			line += ": " + snippet
		}
		if link := strings.TrimSpace(result.Link); link != "" {
			line += " (" + link + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return noResultsMessage, nil
	}
	return strings.Join(lines, "\n"), nil
}
