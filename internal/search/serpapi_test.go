package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewSerpAPIClient_DefaultBaseURL(t *testing.T) {
	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "key"})
	if client.baseURL != "https://serpapi.com" {
		t.Fatalf("unexpected default baseURL: %s", client.baseURL)
	}
}

func TestSearch_MissingKey(t *testing.T) {
	client := NewSerpAPIClient(SerpAPIConfig{})
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestSearch_FormatsOrganicResults(t *testing.T) {
	var gotQuery string
	var gotEngine string
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		gotEngine = r.URL.Query().Get("engine")
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"Coral bleaching","link":"https://example.org/a","snippet":"Heat stress expels symbionts."},
			{"title":"Reef decline","link":"https://example.org/b","snippet":"Cover loss accelerating."}
		]}`))
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "secret", BaseURL: server.URL})
	out, err := client.Search(context.Background(), "coral bleaching")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "coral bleaching" || gotEngine != "google" || gotKey != "secret" {
		t.Fatalf("unexpected query params: q=%q engine=%q key=%q", gotQuery, gotEngine, gotKey)
	}
	if !strings.Contains(out, "Coral bleaching: Heat stress expels symbionts. (https://example.org/a)") {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(strings.Split(out, "\n")) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
}

func TestSearch_PrefersAnswerBox(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer_box":{"answer":"42"},"organic_results":[{"title":"t","snippet":"s"}]}`))
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "key", BaseURL: server.URL})
	out, err := client.Search(context.Background(), "meaning of life")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Answer: 42") {
		t.Fatalf("expected answer box first, got %q", out)
	}
}

func TestSearch_CapsResultCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]string, 0, 8)
		for i := 0; i < 8; i++ {
			results = append(results, `{"title":"t","snippet":"s"}`)
		}
		_, _ = w.Write([]byte(`{"organic_results":[` + strings.Join(results, ",") + `]}`))
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "key", BaseURL: server.URL})
	out, err := client.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(strings.Split(out, "\n")); got != maxResults {
		t.Fatalf("expected %d lines, got %d", maxResults, got)
	}
}

func TestSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "key", BaseURL: server.URL})
	out, err := client.Search(context.Background(), "gibberish query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != noResultsMessage {
		t.Fatalf("output = %q, want %q", out, noResultsMessage)
	}
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "bad", BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error from error field")
	}
}

func TestSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewSerpAPIClient(SerpAPIConfig{APIKey: "key", BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error from HTTP status")
	}
}
