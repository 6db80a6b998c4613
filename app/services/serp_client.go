package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amirphl/Susanoo/config"
)

// OrganicResult is one organic entry on a search results page
type OrganicResult struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
	URL    string `json:"url"`
}

// SerpFeatures flags which SERP features were present for a query
type SerpFeatures struct {
	FeaturedSnippet  bool `json:"featured_snippet"`
	KnowledgeGraph   bool `json:"knowledge_graph"`
	RelatedQuestions bool `json:"related_questions"`
	LocalResults     bool `json:"local_results"`
	Images           bool `json:"images"`
	Shopping         bool `json:"shopping"`
}

// SerpResponse is the organic result metadata returned for one query
type SerpResponse struct {
	Query       string          `json:"query"`
	ResultCount int             `json:"result_count"`
	Results     []OrganicResult `json:"results"`
	Features    SerpFeatures    `json:"features"`
}

// SerpClient fetches search results page metadata from the SERP provider
type SerpClient interface {
	Search(ctx context.Context, query, locale string) (*SerpResponse, error)
}

// SerpClientImpl implements SerpClient against the HTTP SERP provider
type SerpClientImpl struct {
	config *config.SerpConfig
	client *http.Client
}

// NewSerpClient creates a new SERP provider client
func NewSerpClient(cfg *config.SerpConfig) SerpClient {
	return &SerpClientImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Search queries the provider for one keyword in the locale's market
func (c *SerpClientImpl) Search(ctx context.Context, query, locale string) (*SerpResponse, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid serp base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("gl", regionFromLocale(locale))
	q.Set("hl", languageFromLocale(locale))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create serp request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query serp provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("serp provider http status: %d", resp.StatusCode)
	}

	var out SerpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode serp response: %w", err)
	}
	out.Query = query
	if out.ResultCount == 0 {
		out.ResultCount = len(out.Results)
	}

	return &out, nil
}

// languageFromLocale extracts the language code ("fr-FR" -> "fr"), defaulting to en
func languageFromLocale(locale string) string {
	parts := strings.Split(locale, "-")
	if len(parts) >= 1 && len(parts[0]) == 2 {
		return strings.ToLower(parts[0])
	}
	return "en"
}

// MockSerpClient implements SerpClient for testing
type MockSerpClient struct {
	Responses map[string]*SerpResponse
	Err       error
	Calls     []string
}

// NewMockSerpClient creates a new mock SERP provider client
func NewMockSerpClient() *MockSerpClient {
	return &MockSerpClient{
		Responses: make(map[string]*SerpResponse),
	}
}

// SetResponse registers a canned response for a query
func (m *MockSerpClient) SetResponse(query string, resp *SerpResponse) {
	m.Responses[strings.ToLower(query)] = resp
}

// Search returns the canned response for the query, or an empty page
func (m *MockSerpClient) Search(ctx context.Context, query, locale string) (*SerpResponse, error) {
	m.Calls = append(m.Calls, query)
	if m.Err != nil {
		return nil, m.Err
	}

	if resp, ok := m.Responses[strings.ToLower(query)]; ok {
		return resp, nil
	}
	return &SerpResponse{Query: query}, nil
}
