package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/amirphl/Susanoo/app/services"
	"github.com/amirphl/Susanoo/config"
	"github.com/amirphl/Susanoo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlow(trends services.TrendsClient, serp services.SerpClient) *SeoAuditFlowImpl {
	return &SeoAuditFlowImpl{
		trends: trends,
		serp:   serp,
		cfg: &config.ProductionConfig{
			Audit: config.AuditConfig{
				AnalyzerTimeout:        0,
				MaxExtractedKeywords:   20,
				MaxTrendKeywords:       5,
				MaxCompetitionKeywords: 5,
				AuthorityDomains:       []string{"wikipedia.org", "amazon.com", ".gov"},
			},
		},
	}
}

func TestSeriesChangePercent(t *testing.T) {
	cases := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"RisingSharply", []float64{10, 10, 10, 10, 50, 50, 50, 50}, 300},
		{"Declining", []float64{50, 50, 50, 50, 10, 10, 10, 10}, -80},
		{"Flat", []float64{20, 20, 20, 20}, 0},
		{"ZeroToZero", []float64{0, 0, 0, 0}, 0},
		{"ZeroToPositive", []float64{0, 0, 5, 5}, 100},
		{"TooShort", []float64{42}, 0},
		{"Empty", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, seriesChangePercent(tc.series), 0.001)
		})
	}
}

func TestAnalyzeTrend(t *testing.T) {
	t.Run("ClassifiesKeywords", func(t *testing.T) {
		mock := services.NewMockTrendsClient()
		mock.SetSeries("rising", []float64{10, 10, 50, 50})
		mock.SetSeries("falling", []float64{50, 50, 10, 10})
		mock.SetSeries("steady", []float64{30, 30, 31, 31})

		flow := newTestFlow(mock, services.NewMockSerpClient())
		target := &AuditTarget{Keywords: []string{"rising", "falling", "steady"}, Locale: "en-US"}

		res := flow.analyzeTrend(context.Background(), target)
		assert.False(t, res.Failed())
		assert.Equal(t, []string{"rising"}, res.TrendingKeywords)
		assert.Equal(t, []string{"falling"}, res.DecliningKeywords)
		assert.Equal(t, []string{"steady"}, res.NeutralKeywords)
		assert.Equal(t, 60, res.Score) // 50 + 10 per trending keyword
		require.Len(t, res.Recommendations, 1)
		assert.Contains(t, res.Recommendations[0], "falling")
	})

	t.Run("ScoreCapsAtHundred", func(t *testing.T) {
		mock := services.NewMockTrendsClient()
		keywords := []string{"a", "b", "c", "d", "e", "f", "g"}
		for _, kw := range keywords {
			mock.SetSeries(kw, []float64{1, 1, 9, 9})
		}
		flow := newTestFlow(mock, services.NewMockSerpClient())

		res := flow.analyzeTrend(context.Background(), &AuditTarget{Keywords: keywords, Locale: "en-US"})
		// Capped keyword set: only the first five are analyzed.
		assert.Len(t, res.TrendingKeywords, 5)
		assert.Equal(t, 100, res.Score)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		mock := services.NewMockTrendsClient()
		mock.Err = errors.New("timeout")
		flow := newTestFlow(mock, services.NewMockSerpClient())

		res := flow.analyzeTrend(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
		assert.True(t, res.Failed())
		assert.Equal(t, 0, res.Score)
		assert.Contains(t, res.Error, "timeout")
	})

	t.Run("NoKeywords", func(t *testing.T) {
		flow := newTestFlow(services.NewMockTrendsClient(), services.NewMockSerpClient())
		res := flow.analyzeTrend(context.Background(), &AuditTarget{Locale: "en-US"})
		assert.False(t, res.Failed())
		assert.Equal(t, 50, res.Score)
	})
}

func TestAnalyzeCompetition(t *testing.T) {
	t.Run("AuthorityDomainRaisesDifficulty", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		mock.SetResponse("crowded", &services.SerpResponse{
			Query:       "crowded",
			ResultCount: 10,
			Results: []services.OrganicResult{
				{Title: "crowded", Domain: "en.wikipedia.org"},
			},
		})
		mock.SetResponse("niche", &services.SerpResponse{
			Query:       "niche",
			ResultCount: 2,
			Results: []services.OrganicResult{
				{Title: "something else", Domain: "smallblog.net"},
			},
		})
		flow := newTestFlow(services.NewMockTrendsClient(), mock)
		target := &AuditTarget{Keywords: []string{"crowded", "niche"}, Locale: "en-US"}

		res := flow.analyzeCompetition(context.Background(), target)
		assert.False(t, res.Failed())
		assert.Equal(t, []string{"crowded"}, res.HighCompetition)
		assert.Equal(t, []string{"niche"}, res.LowCompetition)
		// crowded: 10/10*40 + 1/10*30 + 70 = 113, capped at 100.
		assert.Equal(t, 100.0, res.ScoreByKeyword["crowded"])
		assert.InDelta(t, 8.0, res.ScoreByKeyword["niche"], 0.001)
		assert.Equal(t, 80, res.Score)
		assert.Len(t, res.Recommendations, 2)
	})

	t.Run("ZeroResultsIsLowCompetition", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		flow := newTestFlow(services.NewMockTrendsClient(), mock)

		res := flow.analyzeCompetition(context.Background(), &AuditTarget{Keywords: []string{"obscure"}, Locale: "en-US"})
		assert.Equal(t, 0.0, res.ScoreByKeyword["obscure"])
		assert.Equal(t, []string{"obscure"}, res.LowCompetition)
		assert.Equal(t, 100, res.Score)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		mock.Err = errors.New("bad gateway")
		flow := newTestFlow(services.NewMockTrendsClient(), mock)

		res := flow.analyzeCompetition(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
		assert.True(t, res.Failed())
		assert.Equal(t, 0, res.Score)
	})

	t.Run("AuthoritySuffixMatch", func(t *testing.T) {
		flow := newTestFlow(services.NewMockTrendsClient(), services.NewMockSerpClient())
		assert.True(t, flow.isAuthorityDomain("en.wikipedia.org"))
		assert.True(t, flow.isAuthorityDomain("nasa.gov"))
		assert.False(t, flow.isAuthorityDomain("wikipedia.org.evil.com"))
	})
}

func TestAnalyzeSerpFeatures(t *testing.T) {
	t.Run("BothFeaturesPresent", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		mock.SetResponse("primary kw", &services.SerpResponse{
			Query: "primary kw",
			Features: services.SerpFeatures{
				FeaturedSnippet:  true,
				RelatedQuestions: true,
			},
		})
		flow := newTestFlow(services.NewMockTrendsClient(), mock)
		target := &AuditTarget{Keywords: []string{"primary kw", "secondary"}, Locale: "en-US"}

		res := flow.analyzeSerpFeatures(context.Background(), target)
		assert.Equal(t, "primary kw", res.PrimaryKeyword)
		assert.Equal(t, 50, res.Score)
		assert.Empty(t, res.Recommendations)
	})

	t.Run("NoFeatures", func(t *testing.T) {
		flow := newTestFlow(services.NewMockTrendsClient(), services.NewMockSerpClient())
		res := flow.analyzeSerpFeatures(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
		assert.Equal(t, 0, res.Score)
		assert.Len(t, res.Recommendations, 2)
	})

	t.Run("OneFeature", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		mock.SetResponse("kw", &services.SerpResponse{
			Query:    "kw",
			Features: services.SerpFeatures{FeaturedSnippet: true},
		})
		flow := newTestFlow(services.NewMockTrendsClient(), mock)
		res := flow.analyzeSerpFeatures(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
		assert.Equal(t, 25, res.Score)
	})

	t.Run("NoKeywords", func(t *testing.T) {
		flow := newTestFlow(services.NewMockTrendsClient(), services.NewMockSerpClient())
		res := flow.analyzeSerpFeatures(context.Background(), &AuditTarget{Locale: "en-US"})
		assert.Equal(t, 0, res.Score)
		assert.Empty(t, res.PrimaryKeyword)
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		mock := services.NewMockSerpClient()
		mock.Err = errors.New("unauthorized")
		flow := newTestFlow(services.NewMockTrendsClient(), mock)
		res := flow.analyzeSerpFeatures(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
		assert.True(t, res.Failed())
		assert.Equal(t, 0, res.Score)
	})
}

func TestSearchVolumeCaptured(t *testing.T) {
	mock := services.NewMockTrendsClient()
	mock.Interest["kw"] = services.KeywordInterest{
		Keyword:      "kw",
		Series:       []float64{10, 10, 20, 20},
		SearchVolume: utils.ToPtr(1200),
	}
	flow := newTestFlow(mock, services.NewMockSerpClient())

	res := flow.analyzeTrend(context.Background(), &AuditTarget{Keywords: []string{"kw"}, Locale: "en-US"})
	assert.Equal(t, 1200, res.SearchVolume["kw"])
	assert.InDelta(t, 100, res.ChangePercent["kw"], 0.001)
}
