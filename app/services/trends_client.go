// Package services provides external service integrations such as the trend and SERP data providers
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"encoding/json"

	"github.com/amirphl/Susanoo/config"
)

// KeywordInterest holds one keyword's interest time series over the queried window
type KeywordInterest struct {
	Keyword      string    `json:"keyword"`
	Series       []float64 `json:"series"`
	SearchVolume *int      `json:"search_volume,omitempty"`
}

// TrendsClient fetches interest-over-time data for keywords from the trend provider
type TrendsClient interface {
	FetchInterest(ctx context.Context, keywords []string, locale string) (map[string]KeywordInterest, error)
}

// TrendsClientImpl implements TrendsClient against the HTTP trend provider
type TrendsClientImpl struct {
	config *config.TrendsConfig
	client *http.Client
}

// NewTrendsClient creates a new trend provider client
func NewTrendsClient(cfg *config.TrendsConfig) TrendsClient {
	return &TrendsClientImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// trendsResponse is the provider's wire format
type trendsResponse struct {
	Keywords []struct {
		Keyword      string    `json:"keyword"`
		Interest     []float64 `json:"interest"`
		SearchVolume *int      `json:"search_volume"`
	} `json:"keywords"`
}

// FetchInterest queries the provider for the given keywords over the configured recent window.
// The geography is derived from the locale's region part.
func (c *TrendsClientImpl) FetchInterest(ctx context.Context, keywords []string, locale string) (map[string]KeywordInterest, error) {
	if len(keywords) == 0 {
		return map[string]KeywordInterest{}, nil
	}

	u, err := url.Parse(c.config.BaseURL + "/interest-over-time")
	if err != nil {
		return nil, fmt.Errorf("invalid trends base URL: %w", err)
	}

	q := u.Query()
	q.Set("keywords", strings.Join(keywords, ","))
	q.Set("geo", regionFromLocale(locale))
	q.Set("days", strconv.Itoa(c.config.WindowDays))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create trends request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("trend provider http status: %d", resp.StatusCode)
	}

	var out trendsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w", err)
	}

	result := make(map[string]KeywordInterest, len(out.Keywords))
	for _, kw := range out.Keywords {
		result[strings.ToLower(kw.Keyword)] = KeywordInterest{
			Keyword:      strings.ToLower(kw.Keyword),
			Series:       kw.Interest,
			SearchVolume: kw.SearchVolume,
		}
	}

	return result, nil
}

// regionFromLocale extracts the region code ("fr-FR" -> "FR"), defaulting to US
func regionFromLocale(locale string) string {
	parts := strings.Split(locale, "-")
	if len(parts) == 2 && len(parts[1]) == 2 {
		return strings.ToUpper(parts[1])
	}
	return "US"
}

// MockTrendsClient implements TrendsClient for testing
type MockTrendsClient struct {
	Interest map[string]KeywordInterest
	Err      error
	Calls    [][]string
}

// NewMockTrendsClient creates a new mock trend provider client
func NewMockTrendsClient() *MockTrendsClient {
	return &MockTrendsClient{
		Interest: make(map[string]KeywordInterest),
	}
}

// SetSeries registers a canned time series for a keyword
func (m *MockTrendsClient) SetSeries(keyword string, series []float64) {
	keyword = strings.ToLower(keyword)
	m.Interest[keyword] = KeywordInterest{Keyword: keyword, Series: series}
}

// FetchInterest returns the canned series for the requested keywords
func (m *MockTrendsClient) FetchInterest(ctx context.Context, keywords []string, locale string) (map[string]KeywordInterest, error) {
	m.Calls = append(m.Calls, keywords)
	if m.Err != nil {
		return nil, m.Err
	}

	result := make(map[string]KeywordInterest)
	for _, kw := range keywords {
		if interest, ok := m.Interest[strings.ToLower(kw)]; ok {
			result[strings.ToLower(kw)] = interest
		}
	}
	return result, nil
}
