package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/Susanoo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpClientSearch(t *testing.T) {
	t.Run("ParsesProviderResponse", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"q":  r.URL.Query().Get("q"),
				"gl": r.URL.Query().Get("gl"),
				"hl": r.URL.Query().Get("hl"),
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result_count": 137,
				"results": []map[string]any{
					{"title": "Pottery guide", "domain": "wikipedia.org", "url": "https://wikipedia.org/pottery"},
				},
				"features": map[string]bool{
					"featured_snippet":  true,
					"related_questions": true,
				},
			})
		}))
		defer server.Close()

		client := NewSerpClient(&config.SerpConfig{BaseURL: server.URL, Timeout: time.Second})
		resp, err := client.Search(context.Background(), "ceramic mugs", "de-DE")
		require.NoError(t, err)

		assert.Equal(t, "ceramic mugs", gotQuery["q"])
		assert.Equal(t, "DE", gotQuery["gl"])
		assert.Equal(t, "de", gotQuery["hl"])

		assert.Equal(t, "ceramic mugs", resp.Query)
		assert.Equal(t, 137, resp.ResultCount)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "wikipedia.org", resp.Results[0].Domain)
		assert.True(t, resp.Features.FeaturedSnippet)
		assert.True(t, resp.Features.RelatedQuestions)
		assert.False(t, resp.Features.LocalResults)
	})

	t.Run("ResultCountDefaultsToResultLength", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"title": "a", "domain": "a.com"},
					{"title": "b", "domain": "b.com"},
				},
			})
		}))
		defer server.Close()

		client := NewSerpClient(&config.SerpConfig{BaseURL: server.URL, Timeout: time.Second})
		resp, err := client.Search(context.Background(), "niche term", "en-US")
		require.NoError(t, err)
		assert.Equal(t, 2, resp.ResultCount)
	})

	t.Run("NonSuccessStatusFails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewSerpClient(&config.SerpConfig{BaseURL: server.URL, Timeout: time.Second})
		_, err := client.Search(context.Background(), "anything", "en-US")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

func TestLanguageFromLocale(t *testing.T) {
	assert.Equal(t, "en", languageFromLocale("en-US"))
	assert.Equal(t, "fr", languageFromLocale("fr-FR"))
	assert.Equal(t, "en", languageFromLocale(""))
}

func TestMockSerpClient(t *testing.T) {
	mock := NewMockSerpClient()
	mock.SetResponse("Ceramic Mugs", &SerpResponse{Query: "ceramic mugs", ResultCount: 3})

	resp, err := mock.Search(context.Background(), "CERAMIC MUGS", "en-US")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ResultCount)

	// Unknown queries come back as an empty page, not an error.
	resp, err = mock.Search(context.Background(), "unknown", "en-US")
	require.NoError(t, err)
	assert.Zero(t, resp.ResultCount)
	assert.Equal(t, []string{"CERAMIC MUGS", "unknown"}, mock.Calls)
}

func TestCacheWrappersBypassWithoutRedis(t *testing.T) {
	trends := NewMockTrendsClient()
	serp := NewMockSerpClient()
	cfg := &config.CacheConfig{Enabled: true, ProviderTTL: time.Hour}

	// With no redis client the wrappers return the inner client untouched.
	assert.Equal(t, TrendsClient(trends), NewCachedTrendsClient(trends, nil, cfg))
	assert.Equal(t, SerpClient(serp), NewCachedSerpClient(serp, nil, cfg))

	// Caching disabled behaves the same.
	disabled := &config.CacheConfig{Enabled: false}
	assert.Equal(t, TrendsClient(trends), NewCachedTrendsClient(trends, nil, disabled))
}
